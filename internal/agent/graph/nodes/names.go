package nodes

// Graph node keys
const (
	NodeReason = "reason"
	NodeTool   = "tool"
)

const tracerName = "github.com/nash-core-poc/server/internal/agent/graph/nodes"
