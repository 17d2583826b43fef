package catalog

import "github.com/jhoicas/catalog-service/internal/domain/entity"

// TreeNode categoría con sus hijas directas.
type TreeNode struct {
	Category *entity.Category
	Children []*TreeNode
}

// BuildTree arma la jerarquía a partir de una foto inmutable de categorías
// (lista de adyacencia padre → hijas, luego armado desde las raíces).
// El orden de entrada se conserva entre hermanas. Solo son raíces las categorías sin padre;
// una categoría cuyo padre no está en la foto (p.ej. padre inactivo filtrado) queda fuera,
// igual que los ciclos, que no son alcanzables desde ninguna raíz.
func BuildTree(categories []*entity.Category) []*TreeNode {
	children := make(map[string][]*entity.Category, len(categories))
	var roots []*entity.Category
	for _, c := range categories {
		if c.IsRoot() {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	var build func(c *entity.Category) *TreeNode
	build = func(c *entity.Category) *TreeNode {
		node := &TreeNode{Category: c, Children: make([]*TreeNode, 0, len(children[c.ID]))}
		for _, child := range children[c.ID] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	out := make([]*TreeNode, 0, len(roots))
	for _, r := range roots {
		out = append(out, build(r))
	}
	return out
}
