package export

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/canopy/pkg/model"
	"github.com/vanderheijden86/canopy/pkg/selection"
	"github.com/vanderheijden86/canopy/pkg/testutil"
)

func TestGenerateMarkdownTriState(t *testing.T) {
	sel := selection.Normalize(testutil.FruitTree(), []string{"citrus"}, model.ModeCascade)
	md := GenerateMarkdown(testutil.FruitTree(), sel, MarkdownOptions{
		Mode:             model.ModeCascade,
		IncludeUnchecked: true,
	})

	for _, want := range []string{
		"- [~] fruits (`fruits`)",
		"- [ ] apple (`apple`)",
		"- [x] citrus (`citrus`)",
		"- [x] lemon (`lemon`)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q\n%s", want, md)
		}
	}
}

func TestGenerateMarkdownPrunesUnchecked(t *testing.T) {
	sel := selection.NewSet("citrus")
	md := GenerateMarkdown(testutil.FruitTree(), sel, MarkdownOptions{
		Mode:             model.ModeTopLevel,
		IncludeUnchecked: false,
	})

	if strings.Contains(md, "apple") {
		t.Errorf("unchecked branch not pruned:\n%s", md)
	}
	if !strings.Contains(md, "citrus") {
		t.Errorf("selected branch missing:\n%s", md)
	}
	// Covered descendants stay visible as indeterminate.
	if !strings.Contains(md, "- [~] lemon") {
		t.Errorf("covered descendant missing:\n%s", md)
	}
}

func TestGenerateMarkdownUnknownIDs(t *testing.T) {
	sel := selection.NewSet("ghost", "apple")
	md := GenerateMarkdown(testutil.FruitTree(), sel, MarkdownOptions{IncludeUnchecked: true})

	if !strings.Contains(md, "Unknown selected ids") || !strings.Contains(md, "`ghost`") {
		t.Errorf("unknown id section missing:\n%s", md)
	}
}

func TestGenerateMarkdownDefaultTitle(t *testing.T) {
	md := GenerateMarkdown(testutil.FruitTree(), nil, MarkdownOptions{IncludeUnchecked: true})
	if !strings.HasPrefix(md, "# Selection Report") {
		t.Errorf("default title missing:\n%s", md)
	}
}

func TestRenderPreview(t *testing.T) {
	out, err := RenderPreview("# Title\n\n- [x] item\n", 80)
	if err != nil {
		t.Fatalf("RenderPreview: %v", err)
	}
	if !strings.Contains(out, "Title") {
		t.Errorf("preview missing heading: %q", out)
	}
}
