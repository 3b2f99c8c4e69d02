package definition

type ModuleType string

const (
	ModuleTypeSource    ModuleType = "source"
	ModuleTypeProcessor ModuleType = "processor"
	ModuleTypeSink      ModuleType = "sink"
)

// ModuleDescriptor is one module of a resolved stream topology.
type ModuleDescriptor struct {
	// Type of the module, determined by its position in the pipeline.
	Type ModuleType
	// Label is unique within the stream.
	Label string
	// Position in deployment order, a module deploys only after its
	// upstream modules, so the source is at position 0.
	Position int
}
