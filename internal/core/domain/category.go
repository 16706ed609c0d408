package domain

import "sort"

// Category is a node in the two-level category hierarchy. A nil-equivalent
// (empty) ParentID marks a root category.
type Category struct {
	ID       string `json:"id" bson:"_id,omitempty"`
	Name     string `json:"name" bson:"name"`
	ParentID string `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
}

// CategoryNode is a root category together with its direct children.
type CategoryNode struct {
	Category `json:",inline"`
	Children []Category `json:"children"`
}

// BuildCategoryTree groups a flat category list into root nodes with nested
// child slices. The result is ordered by category id at both levels, so
// rebuilding from the same flat list always yields the same tree. Children
// whose parent is absent from the input are dropped.
func BuildCategoryTree(flat []Category) []*CategoryNode {
	nodes := make(map[string]*CategoryNode)
	var roots []*CategoryNode
	for _, c := range flat {
		if c.ParentID != "" {
			continue
		}
		n := &CategoryNode{Category: c, Children: []Category{}}
		nodes[c.ID] = n
		roots = append(roots, n)
	}
	for _, c := range flat {
		if c.ParentID == "" {
			continue
		}
		if parent, ok := nodes[c.ParentID]; ok {
			parent.Children = append(parent.Children, c)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].ID < roots[j].ID })
	for _, n := range roots {
		sort.Slice(n.Children, func(i, j int) bool { return n.Children[i].ID < n.Children[j].ID })
	}
	return roots
}
