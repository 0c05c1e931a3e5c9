package pysyntax

import (
	"context"
	"fmt"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Result reports the outcome of a syntax check. Line and Column are
// 1-indexed and zero when the source is valid.
type Result struct {
	Valid  bool   `json:"valid"`
	Error  string `json:"error,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// Checker parses Python source with tree-sitter. A Checker is safe for
// concurrent use; the underlying parser is not, so checks serialize on it.
type Checker struct {
	mu     sync.Mutex
	parser *sitter.Parser
}

// NewChecker constructs a Checker with the Python grammar loaded.
func NewChecker() *Checker {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &Checker{parser: parser}
}

// Check parses source and reports the first syntax problem, if any.
func (c *Checker) Check(source string) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	tree, err := c.parser.ParseCtx(context.Background(), nil, []byte(source))
	if err != nil {
		// Parser-level failures (not syntax problems) still become result
		// values so callers never see an exception path.
		return Result{Valid: false, Error: fmt.Sprintf("parse failed: %v", err), Line: 1, Column: 1}
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return Result{Valid: true}
	}

	node := firstProblem(root)
	if node == nil {
		node = root
	}
	point := node.StartPoint()
	return Result{
		Valid:  false,
		Error:  describeProblem(node, source),
		Line:   int(point.Row) + 1,
		Column: int(point.Column) + 1,
	}
}

// firstProblem locates the first ERROR or missing node in reading order.
func firstProblem(node *sitter.Node) *sitter.Node {
	if node.Type() == "ERROR" || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := firstProblem(node.Child(i)); found != nil {
			return found
		}
	}
	return node
}

func describeProblem(node *sitter.Node, source string) string {
	if node.IsMissing() {
		return fmt.Sprintf("expected %s", node.Type())
	}
	start, end := node.StartByte(), node.EndByte()
	if int(end) > len(source) {
		end = uint32(len(source))
	}
	fragment := strings.TrimSpace(string(source[start:end]))
	if fragment == "" {
		return "invalid syntax: unexpected end of input"
	}
	if len(fragment) > 40 {
		fragment = fragment[:40] + "..."
	}
	return fmt.Sprintf("invalid syntax near %q", fragment)
}
