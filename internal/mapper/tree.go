package mapper

import "github.com/boddenberg/backoffice-reporting-go/internal/domain"

// BuildBranchTree renders the arena forest as nested nodes, roots first in
// code order.
func BuildBranchTree(f *domain.BranchForest) []domain.BureauNodeDTO {
	roots := make([]domain.BureauNodeDTO, 0, len(f.Roots))
	for _, idx := range f.Roots {
		roots = append(roots, buildNode(f, idx))
	}
	return roots
}

func buildNode(f *domain.BranchForest, idx int) domain.BureauNodeDTO {
	b := f.Nodes[idx]
	node := domain.BureauNodeDTO{
		CodeBureau:  b.Code,
		Designation: b.Designation,
		Enfants:     make([]domain.BureauNodeDTO, 0, len(f.Children[idx])),
	}
	for _, child := range f.Children[idx] {
		node.Enfants = append(node.Enfants, buildNode(f, child))
	}
	return node
}
