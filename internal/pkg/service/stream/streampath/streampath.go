// Package streampath builds coordination namespace paths for streams.
//
// Layout:
//
//	streams/<name>                          stream root node, payload = properties
//	streams/<name>/<moduleType>/<label>     module deployment-status node,
//	                                        children signal deployment completion
package streampath

import (
	"github.com/streamforge/streamforge/internal/pkg/coordination"
)

// Root is the watched subtree containing one child node per stream.
const Root = "streams"

// Stream returns the path of the stream root node.
func Stream(name string) string {
	return Root + "/" + name
}

// ModuleDeployment returns the deployment-status path of one stream module.
func ModuleDeployment(streamName, moduleType, moduleLabel string) string {
	return Stream(streamName) + "/" + moduleType + "/" + moduleLabel
}

// StreamName extracts the stream name from a direct child path of the streams root.
func StreamName(path string) (string, bool) {
	return coordination.ChildName(Root, path)
}
