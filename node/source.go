package node

// Source identifies the document a step or argument was read from. Nodes
// carry it by value instead of pointing back at their feature.
type Source struct {
	Language string
	File     string
}
