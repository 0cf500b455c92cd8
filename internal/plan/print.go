package plan

import (
	"fmt"
	"io"

	"github.com/suspenders-cli/suspenders/internal/options"
)

// PrintTree writes the phase tree with box-drawing characters. Steps whose
// guard is false for cfg are marked "(skipped)". A nil root prints nothing.
func PrintTree(w io.Writer, root *Phase, reg *Registry, cfg options.Config) {
	if root == nil {
		return
	}
	fmt.Fprintf(w, "  %s\n", phaseLabel(root))
	printChildren(w, root, reg, cfg, "")
}

func printChildren(w io.Writer, p *Phase, reg *Registry, cfg options.Config, prefix string) {
	for i, child := range p.Children {
		isLast := i == len(p.Children)-1
		connector := "├── "
		childPrefix := prefix + "│   "
		if isLast {
			connector = "└── "
			childPrefix = prefix + "    "
		}

		switch n := child.(type) {
		case *Phase:
			if n == nil {
				fmt.Fprintf(w, "  %s%s(nil phase)\n", prefix, connector)
				continue
			}
			fmt.Fprintf(w, "  %s%s%s\n", prefix, connector, phaseLabel(n))
			printChildren(w, n, reg, cfg, childPrefix)
		case StepRef:
			label := string(n)
			step, ok := reg.Lookup(label)
			switch {
			case !ok:
				label += " (unknown)"
			case !step.Enabled(cfg):
				label += " (skipped)"
			}
			fmt.Fprintf(w, "  %s%s%s\n", prefix, connector, label)
		}
	}
}

func phaseLabel(p *Phase) string {
	if p.Label == "" {
		return p.Name
	}
	return fmt.Sprintf("%s: %s", p.Name, p.Label)
}
