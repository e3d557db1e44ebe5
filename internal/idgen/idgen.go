package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/helpdesk/internal/config"
	"go.uber.org/fx"
)

// Generator issues entity ids of the form "<kind>-<snowflake>". Snowflake ids
// embed a millisecond timestamp and a per-node sequence, so ids minted in the
// same millisecond stay distinct.
type Generator struct {
	node *snowflake.Node
}

func New(node int64) (*Generator, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", node, err)
	}
	return &Generator{node: n}, nil
}

func NewFromConfig(cfg config.Config) (*Generator, error) {
	return New(cfg.SnowflakeNode)
}

// MustNew is intended for tests and fixtures.
func MustNew(node int64) *Generator {
	g, err := New(node)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Generator) Next(kind string) string {
	return kind + "-" + g.node.Generate().String()
}

var Module = fx.Module("idgen",
	fx.Provide(NewFromConfig),
)
