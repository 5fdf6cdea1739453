package ast

import "testing"

func TestAttributeValueSimplify(t *testing.T) {
	tests := []struct {
		name  string
		parts []ValuePart
		want  ValueKind
	}{
		{"empty collapses to boolean", nil, ValueBoolean},
		{"single literal collapses to static", []ValuePart{{Static: "a"}}, ValueStatic},
		{"single expression collapses to output", []ValuePart{{Output: &Output{Expression: "x"}}}, ValueOutput},
		{"mixed stays parts", []ValuePart{{Static: "a"}, {Output: &Output{Expression: "x"}}}, ValueParts},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := PartsValue(tc.parts)
			if v.Kind != tc.want {
				t.Errorf("Kind = %v, want %v", v.Kind, tc.want)
			}
		})
	}
}

func TestAttributeValueSimplifyFields(t *testing.T) {
	v := PartsValue([]ValuePart{{Static: "card"}})
	if v.Static != "card" || v.Parts != nil {
		t.Errorf("collapsed static value not normalized: %+v", v)
	}

	out := &Output{Expression: "cls"}
	v = PartsValue([]ValuePart{{Output: out}})
	if v.Output != out || v.Parts != nil {
		t.Errorf("collapsed output value not normalized: %+v", v)
	}
}

func TestAttributeValueAppendResimplifies(t *testing.T) {
	v := BooleanValue()
	v.Append(ValuePart{Static: "a"})
	if v.Kind != ValueStatic || v.Static != "a" {
		t.Fatalf("after first append: %+v", v)
	}
	v.Append(ValuePart{Output: &Output{Expression: "x"}})
	if v.Kind != ValueParts || len(v.Parts) != 2 {
		t.Fatalf("after second append: %+v", v)
	}
}

func TestIsWhitespaceText(t *testing.T) {
	if !IsWhitespaceText(&Text{Value: " \n\t\r "}) {
		t.Error("whitespace text not recognized")
	}
	if IsWhitespaceText(&Text{Value: " x "}) {
		t.Error("non-whitespace text misclassified")
	}
	if IsWhitespaceText(&RawCode{Code: " "}) {
		t.Error("non-text node misclassified")
	}
}

func TestCloneElementWithout(t *testing.T) {
	el := &Element{
		Tag: "div",
		Attributes: []*Attribute{
			{Name: "class", Value: StaticValue("a")},
			{Name: "s:if", Value: StaticValue("ok")},
		},
		Children: []Node{&Text{Value: "x"}},
	}
	clone := CloneElementWithout(el, 1)
	if len(clone.Attributes) != 1 || clone.Attributes[0].Name != "class" {
		t.Fatalf("clone attributes = %+v", clone.Attributes)
	}
	if len(clone.Children) != 1 {
		t.Fatalf("clone lost children")
	}
	if len(el.Attributes) != 2 {
		t.Fatal("original element was mutated")
	}
}
