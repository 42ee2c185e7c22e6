package output

import (
	"path"
	"sort"
	"strings"
)

const (
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "

	// descriptionColumn is where file annotations start.
	descriptionColumn = 36
)

// TreeNode represents a node in the project tree.
type TreeNode struct {
	Name        string
	Description string
	IsDir       bool
	Children    []*TreeNode
}

// RenderFileTree renders a project tree rooted at rootName.
// files maps forward-slash paths to an annotation (may be empty); dirs lists
// directories that must appear even when they hold no files.
func RenderFileTree(rootName string, files map[string]string, dirs []string) string {
	if len(files) == 0 && len(dirs) == 0 {
		return ""
	}

	root := &TreeNode{Name: rootName, IsDir: true}

	for _, d := range dirs {
		insert(root, d, "", true)
	}
	for p, desc := range files {
		insert(root, p, desc, false)
	}

	sortTree(root)

	var sb strings.Builder
	renderNode(&sb, root, "", true, true)
	return sb.String()
}

func insert(root *TreeNode, p, desc string, isDir bool) {
	p = strings.Trim(path.Clean(strings.ReplaceAll(p, "\\", "/")), "/")
	if p == "" || p == "." {
		return
	}
	parts := strings.Split(p, "/")
	current := root

	for i, part := range parts {
		isLast := i == len(parts)-1

		var child *TreeNode
		for _, c := range current.Children {
			if c.Name == part {
				child = c
				break
			}
		}

		if child == nil {
			child = &TreeNode{Name: part, IsDir: !isLast || isDir}
			current.Children = append(current.Children, child)
		}

		if isLast && !isDir {
			child.Description = desc
		}

		current = child
	}
}

// sortTree orders directories first, then alphabetically.
func sortTree(node *TreeNode) {
	sort.Slice(node.Children, func(i, j int) bool {
		if node.Children[i].IsDir != node.Children[j].IsDir {
			return node.Children[i].IsDir
		}
		return node.Children[i].Name < node.Children[j].Name
	})

	for _, child := range node.Children {
		sortTree(child)
	}
}

func renderNode(sb *strings.Builder, node *TreeNode, prefix string, isRoot, isLast bool) {
	styles := GetStyles()

	if isRoot {
		sb.WriteString(styles.Bold.Render(node.Name + "/"))
		sb.WriteString("\n")
	} else {
		connector := treeEdge
		if isLast {
			connector = treeLast
		}

		name := node.Name
		if node.IsDir {
			name += "/"
		}

		line := prefix + connector + name
		if node.Description != "" {
			padding := descriptionColumn - len([]rune(line))
			if padding < 2 {
				padding = 2
			}
			line += strings.Repeat(" ", padding)
			line += styles.Muted.Render(node.Description)
		}

		sb.WriteString(line)
		sb.WriteString("\n")
	}

	for i, child := range node.Children {
		childIsLast := i == len(node.Children)-1

		childPrefix := ""
		if !isRoot {
			if isLast {
				childPrefix = prefix + treeSpace
			} else {
				childPrefix = prefix + treeVert
			}
		}

		renderNode(sb, child, childPrefix, false, childIsLast)
	}
}
