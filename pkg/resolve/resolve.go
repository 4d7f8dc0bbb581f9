// Package resolve turns $ref pointers into IR nodes. Resolution is memoized
// so a pointer always yields the same node instance, which lets later stages
// recognize shared schemas by identity.
package resolve

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/blimu-dev/schema-gen/pkg/diag"
	"github.com/blimu-dev/schema-gen/pkg/document"
	"github.com/blimu-dev/schema-gen/pkg/schema"
)

// Resolver resolves references across a document set. A Resolver belongs to
// one compilation run and is not safe for concurrent use.
type Resolver struct {
	set     *document.Set
	parsers map[string]*schema.Parser
	memo    map[string]*schema.Node
}

// New returns a resolver over set.
func New(set *document.Set) *Resolver {
	return &Resolver{
		set:     set,
		parsers: map[string]*schema.Parser{},
		memo:    map[string]*schema.Node{},
	}
}

// Schema parses the named document through the resolver's own parser, so
// nodes reached by reference are the same instances the parse produced.
func (r *Resolver) Schema(name string) (*schema.Schema, error) {
	p, err := r.parser(name)
	if err != nil {
		return nil, err
	}
	return p.Parse()
}

func (r *Resolver) parser(name string) (*schema.Parser, error) {
	doc, ok := r.set.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown document %q", name)
	}
	if p, ok := r.parsers[doc.Name]; ok {
		return p, nil
	}
	p := schema.NewParser(doc)
	r.parsers[doc.Name] = p
	return p, nil
}

// Resolve follows one $ref hop from node.
func (r *Resolver) Resolve(node *schema.Node) (*schema.Node, error) {
	if node.Kind != schema.KindRef {
		return node, nil
	}
	docName, pointer, err := r.split(node)
	if err != nil {
		return nil, err
	}
	key := docName + pointer
	if n, ok := r.memo[key]; ok {
		return n, nil
	}
	p, err := r.parser(docName)
	if err != nil {
		return nil, &diag.UnresolvedReferenceError{Location: node.Location, Pointer: node.Ref}
	}
	target, err := p.At(pointer)
	if err != nil {
		var malformed *diag.MalformedError
		if errors.As(err, &malformed) {
			return nil, err
		}
		return nil, &diag.UnresolvedReferenceError{Location: node.Location, Pointer: node.Ref}
	}
	r.memo[key] = target
	return target, nil
}

// Target follows a chain of references to the first node that is not a
// reference. A chain that loops back on itself is a CyclicAliasError.
func (r *Resolver) Target(node *schema.Node) (*schema.Node, error) {
	seen := map[*schema.Node]bool{}
	var chain []string
	cur := node
	for cur.Kind == schema.KindRef {
		if seen[cur] {
			chain = append(chain, cur.Ref)
			return nil, &diag.CyclicAliasError{Location: node.Location, Chain: chain}
		}
		seen[cur] = true
		chain = append(chain, cur.Ref)
		next, err := r.Resolve(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// CheckAll resolves every reference in s so dangling pointers and alias
// cycles surface before synthesis starts.
func (r *Resolver) CheckAll(s *schema.Schema) error {
	for _, ref := range s.Refs {
		if _, err := r.Target(ref); err != nil {
			return err
		}
	}
	return nil
}

// split separates a $ref into the document it targets and a local pointer.
func (r *Resolver) split(node *schema.Node) (string, string, error) {
	ref := node.Ref
	docPart, frag, _ := strings.Cut(ref, "#")
	docName := node.Document
	if docPart != "" {
		doc, ok := r.set.Get(docPart)
		if !ok {
			return "", "", &diag.UnresolvedReferenceError{Location: node.Location, Pointer: ref}
		}
		docName = doc.Name
	}
	if frag != "" && !strings.HasPrefix(frag, "/") {
		// Plain-name anchors are not supported.
		return "", "", &diag.UnresolvedReferenceError{Location: node.Location, Pointer: ref}
	}
	if unescaped, err := url.PathUnescape(frag); err == nil {
		frag = unescaped
	}
	return docName, "#" + frag, nil
}
