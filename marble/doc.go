// Package marble reads the Marble node registry and finds the node that hosts a dataset.
//
// The registry is a JSON object keyed by node name. Each node lists links; the link with
// rel "service" is the node's public URL. ResolveHost maps a THREDDS catalog URL to the
// name of the node serving it, using a MatchPolicy:
//
//   - MatchSubstring: the catalog hostname occurs anywhere in the node URL. When several
//     nodes match, the last one in name order wins and a warning is logged.
//   - MatchExact: the catalog hostname equals the node URL hostname.
package marble
