package definition

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/streamforge/streamforge/internal/pkg/utils/errors"
)

// Resolver resolves a stream's properties into its module topology.
// The returned modules are in deployment order, the source first.
type Resolver interface {
	Resolve(streamName string, props Properties) ([]ModuleDescriptor, error)
}

// TopologyResolutionError means the stream definition is missing or malformed.
// It is not a transient condition, callers must not retry.
type TopologyResolutionError struct {
	StreamName string
	err        error
}

func NewTopologyResolutionError(streamName string, err error) TopologyResolutionError {
	return TopologyResolutionError{StreamName: streamName, err: err}
}

func (TopologyResolutionError) ErrorName() string {
	return "topologyResolution"
}

func (e TopologyResolutionError) Error() string {
	return errors.PrefixErrorf(e.err, `cannot resolve topology of stream "%s"`, e.StreamName).Error()
}

func (e TopologyResolutionError) Unwrap() error {
	return e.err
}

var moduleNameRegexp = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// PipelineResolver parses the pipeline definition property,
// modules separated by pipes, with optional labels:
//
//	http | filter | log
//	in: http | transform | out: log
type PipelineResolver struct{}

func NewPipelineResolver() *PipelineResolver {
	return &PipelineResolver{}
}

func (r *PipelineResolver) Resolve(streamName string, props Properties) ([]ModuleDescriptor, error) {
	dsl, found := props.Definition()
	if !found {
		return nil, NewTopologyResolutionError(streamName, errors.Errorf(`missing "%s" property`, DefinitionKey))
	}

	segments := strings.Split(dsl, "|")
	if len(segments) < 2 {
		return nil, NewTopologyResolutionError(streamName, errors.New("a stream needs at least a source and a sink"))
	}

	type moduleDef struct {
		name  string
		label string
	}

	defs := make([]moduleDef, 0, len(segments))
	nameCount := make(map[string]int)
	for _, segment := range segments {
		def := moduleDef{name: strings.TrimSpace(segment)}
		if label, name, found := strings.Cut(def.name, ":"); found {
			def.label = strings.TrimSpace(label)
			def.name = strings.TrimSpace(name)
			if !moduleNameRegexp.MatchString(def.label) {
				return nil, NewTopologyResolutionError(streamName, errors.Errorf(`invalid module label "%s"`, def.label))
			}
		}
		if !moduleNameRegexp.MatchString(def.name) {
			return nil, NewTopologyResolutionError(streamName, errors.Errorf(`invalid module name "%s"`, def.name))
		}
		nameCount[def.name]++
		defs = append(defs, def)
	}

	modules := make([]ModuleDescriptor, 0, len(defs))
	labels := make(map[string]struct{})
	for i, def := range defs {
		label := def.label
		if label == "" {
			// Default label, repeated module names get a positional suffix.
			label = def.name
			if nameCount[def.name] > 1 {
				label += "-" + strconv.Itoa(i)
			}
		}
		if _, exists := labels[label]; exists {
			return nil, NewTopologyResolutionError(streamName, errors.Errorf(`duplicate module label "%s"`, label))
		}
		labels[label] = struct{}{}

		moduleType := ModuleTypeProcessor
		switch i {
		case 0:
			moduleType = ModuleTypeSource
		case len(defs) - 1:
			moduleType = ModuleTypeSink
		}

		modules = append(modules, ModuleDescriptor{Type: moduleType, Label: label, Position: i})
	}

	return modules, nil
}
