package checker

import (
	"snff/pkg/errors"
	"snff/pkg/parser"
	"snff/pkg/types"
)

// resolveType turns a type annotation into a type. Names resolve through the
// scope chain. An optional union, intersection or object type becomes a
// union with null.
func (c *Checker) resolveType(node parser.TypeNode, scope *Scope) (types.Type, error) {
	var t types.Type
	switch n := node.(type) {
	case *parser.TypeReference:
		return c.resolveReference(n, scope)

	case *parser.UnionTypeNode:
		left, err := c.resolveType(n.Left, scope)
		if err != nil {
			return nil, err
		}
		right, err := c.resolveType(n.Right, scope)
		if err != nil {
			return nil, err
		}
		t = &types.Union{Left: left, Right: right}

	case *parser.IntersectionTypeNode:
		left, err := c.resolveType(n.Left, scope)
		if err != nil {
			return nil, err
		}
		right, err := c.resolveType(n.Right, scope)
		if err != nil {
			return nil, err
		}
		t = &types.Intersection{Left: left, Right: right}

	case *parser.ObjectTypeNode:
		cls := &types.Class{}
		for _, entry := range n.Entries {
			et, err := c.resolveType(entry.Type, scope)
			if err != nil {
				return nil, err
			}
			cls.AddProperty(&types.Property{Name: entry.Key, Type: et})
		}
		t = cls

	default:
		return types.Any, nil
	}

	if node.IsOptional() {
		return &types.Union{Left: t, Right: types.Ref(types.Null)}, nil
	}
	return t, nil
}

func (c *Checker) resolveReference(n *parser.TypeReference, scope *Scope) (types.Type, error) {
	decl, ok := scope.LookupType(n.Name)
	if !ok {
		return nil, errors.NewTypeReferenceError(n.Pos(), n.Name)
	}

	var params []*types.Class
	switch d := decl.(type) {
	case *types.Class:
		params = d.TypeParams
	case *types.Alias:
		params = d.TypeParams
	}
	if len(n.Args) > 0 && len(n.Args) != len(params) {
		return nil, errors.NewTypeError(n.Pos(), errors.MsgTypeArity, n.Name, len(params), len(n.Args))
	}

	ref := &types.Reference{Name: n.Name, Decl: decl, Optional: n.Optional}
	for _, arg := range n.Args {
		t, err := c.resolveType(arg, scope)
		if err != nil {
			return nil, err
		}
		ref.Args = append(ref.Args, t)
	}
	return ref, nil
}
