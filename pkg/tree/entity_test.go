package tree

import (
	"errors"
	"strings"
	"testing"
)

func sample() *Entity {
	return &Entity{Name: "Root", Children: []*Entity{
		{Name: "A", Children: []*Entity{{Name: "B", URL: "/x"}}},
		{Name: "C"},
	}}
}

func TestValidate(t *testing.T) {
	shared := &Entity{Name: "S"}
	cyclic := &Entity{Name: "Loop"}
	cyclic.Children = []*Entity{{Name: "Inner", Children: []*Entity{cyclic}}}

	tests := []struct {
		name    string
		root    *Entity
		wantErr error
	}{
		{"valid", sample(), nil},
		{"lone root", &Entity{Name: "Root"}, nil},
		{"nil root", nil, ErrNilRoot},
		{"empty name", &Entity{Name: "Root", Children: []*Entity{{}}}, ErrEmptyName},
		{"shared child", &Entity{Name: "Root", Children: []*Entity{
			{Name: "A", Children: []*Entity{shared}},
			{Name: "B", Children: []*Entity{shared}},
		}}, ErrShared},
		{"cycle", cyclic, ErrCycle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.root)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_NilChild(t *testing.T) {
	root := &Entity{Name: "Root", Children: []*Entity{nil}}
	if err := Validate(root); err == nil || !strings.Contains(err.Error(), "nil child") {
		t.Errorf("Validate() error = %v, want nil child error", err)
	}
}

func TestWalkCountDepth(t *testing.T) {
	root := sample()

	var names []string
	Walk(root, func(e *Entity, depth int, parent *Entity) bool {
		names = append(names, e.Name)
		if depth == 0 && parent != nil {
			t.Error("root should have nil parent")
		}
		return true
	})
	if got := strings.Join(names, ","); got != "Root,A,B,C" {
		t.Errorf("pre-order = %s, want Root,A,B,C", got)
	}

	if n := Count(root); n != 4 {
		t.Errorf("Count() = %d, want 4", n)
	}
	if d := Depth(root); d != 2 {
		t.Errorf("Depth() = %d, want 2", d)
	}
	if l := Leaves(root); len(l) != 2 || l[0].Name != "B" || l[1].Name != "C" {
		t.Errorf("Leaves() = %v", l)
	}
}

func TestWalk_Skip(t *testing.T) {
	n := 0
	Walk(sample(), func(e *Entity, _ int, _ *Entity) bool {
		n++
		return e.Name != "A"
	})
	if n != 3 {
		t.Errorf("visited %d entities, want 3 (B skipped)", n)
	}
}

func TestClone(t *testing.T) {
	orig := sample()
	c := orig.Clone()
	c.Children[0].Children[0].Name = "changed"
	if orig.Children[0].Children[0].Name != "B" {
		t.Error("Clone() should not share children")
	}
	if (*Entity)(nil).Clone() != nil {
		t.Error("Clone() of nil should be nil")
	}
}

func TestFallbackNames(t *testing.T) {
	if got := PersonName(""); got != "Unnamed" {
		t.Errorf("PersonName(\"\") = %q, want Unnamed", got)
	}
	if got := ObjectName(""); got != "Memory Object" {
		t.Errorf("ObjectName(\"\") = %q, want Memory Object", got)
	}
	if got := PersonName("Anna"); got != "Anna" {
		t.Errorf("PersonName(Anna) = %q", got)
	}

	root := &Entity{Name: "Root", Children: []*Entity{{Children: []*Entity{{}}}}}
	FillNames(root)
	if root.Children[0].Name != UnnamedPerson {
		t.Errorf("person name = %q, want %q", root.Children[0].Name, UnnamedPerson)
	}
	if root.Children[0].Children[0].Name != UnnamedObject {
		t.Errorf("object name = %q, want %q", root.Children[0].Children[0].Name, UnnamedObject)
	}
}

func TestPlaceholder(t *testing.T) {
	p := Placeholder("")
	if p.Name != ErrorLabel || len(p.Children) != 0 {
		t.Errorf("Placeholder(\"\") = %+v", p)
	}
	if Placeholder("Offline").Name != "Offline" {
		t.Error("Placeholder should keep a custom label")
	}
}
