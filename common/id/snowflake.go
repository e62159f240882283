package id

import (
	"errors"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// Prefixes keep group and item identifiers distinguishable in logs and URLs.
const (
	GroupPrefix = "qg_"
	ItemPrefix  = "qi_"
)

var (
	node *snowflake.Node
	once sync.Once

	ErrNotInitialized = errors.New("id: node not initialized")
)

// Init binds this process to a snowflake node. The server, worker and CLI
// each need a distinct node ID when they share a database.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	if err == nil && node == nil {
		return ErrNotInitialized
	}
	return err
}

// New returns a time-ordered int64. Thread entries use it directly.
func New() int64 {
	return node.Generate().Int64()
}

// NewGroupID returns an opaque query group identifier.
func NewGroupID() string {
	return GroupPrefix + node.Generate().Base58()
}

// NewItemID returns an opaque query item identifier.
// Callers must treat it as a token and never derive one id from another.
func NewItemID() string {
	return ItemPrefix + node.Generate().Base58()
}
