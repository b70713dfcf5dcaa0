// Package implementations holds the populators shipped with stac-populator.
//
// Each populator lives in its own sub-package and adds itself to Namespace from init.
// Import implementations/all to register every one of them.
package implementations
