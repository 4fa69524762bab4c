// internal/pkg/idgen/snowflake.go
package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Generator issues time-ordered 64-bit ids. Ids from one node are strictly
// increasing; each running process needs its own node id (0-1023).
type Generator struct {
	node *snowflake.Node
}

// NewGenerator creates a generator bound to nodeID.
func NewGenerator(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to init snowflake node %d: %w", nodeID, err)
	}
	return &Generator{node: node}, nil
}

// Next returns the next id.
func (g *Generator) Next() int64 {
	return g.node.Generate().Int64()
}
