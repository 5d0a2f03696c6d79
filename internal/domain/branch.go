package domain

import "sort"

// ============================================================
// Branches (bureaux)
// ============================================================

// Bureau is a post-office / banking agency. CodeParent references the parent
// branch by key.
type Bureau struct {
	Code        int
	Designation string
	Adresse     *string
	CodeParent  *int
}

// BranchForest stores the branch hierarchy as a flat arena. Children and
// Roots hold indexes into Nodes.
type BranchForest struct {
	Nodes    []Bureau
	Children map[int][]int
	Roots    []int
}

// NewBranchForest indexes a flat branch list. Branches whose parent is
// missing, or whose parent chain loops back on itself, become roots.
func NewBranchForest(branches []Bureau) *BranchForest {
	nodes := make([]Bureau, len(branches))
	copy(nodes, branches)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Code < nodes[j].Code })

	byCode := make(map[int]int, len(nodes))
	for i, b := range nodes {
		byCode[b.Code] = i
	}

	f := &BranchForest{Nodes: nodes, Children: make(map[int][]int)}
	for i, b := range nodes {
		if b.CodeParent == nil || *b.CodeParent == b.Code || inCycle(nodes, byCode, i) {
			f.Roots = append(f.Roots, i)
			continue
		}
		p, ok := byCode[*b.CodeParent]
		if !ok {
			f.Roots = append(f.Roots, i)
			continue
		}
		f.Children[p] = append(f.Children[p], i)
	}
	return f
}

// inCycle walks the parent chain of node i and reports whether it returns to i.
func inCycle(nodes []Bureau, byCode map[int]int, i int) bool {
	seen := map[int]bool{i: true}
	cur := i
	for {
		parent := nodes[cur].CodeParent
		if parent == nil {
			return false
		}
		next, ok := byCode[*parent]
		if !ok {
			return false
		}
		if next == i {
			return true
		}
		if seen[next] {
			// loop above i, i itself hangs off it
			return false
		}
		seen[next] = true
		cur = next
	}
}
