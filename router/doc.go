// Package router builds the unified command surface over the registered plugins.
//
//	stac-populator [--log-level L] [--version] run <plugin> [plugin args...]
//
// Plugins that implement a runner are invoked with the context parsed by the router.
// The others receive every argument after the plugin name, unparsed.
package router
