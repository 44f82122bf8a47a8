package executor

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOrdering_FieldOutput_Order_Result(t *testing.T) {
	sch := mustBuildSchema(t, `type Query { a: String b: String c: String }`, "Query.b")
	rt := NewMockRuntime(map[string]MockResolver{
		"Query.a": NewMockValueResolver("A"),
		"Query.b": NewMockValueResolver("B"),
		"Query.c": NewMockValueResolver("C"),
	})

	gotRes := NewExecutor(rt, sch).ExecuteRequest(context.Background(), mustParseQuery(t, "{ a b c }"), "", nil, nil)

	wantRes := &ExecutionResult{Data: map[string]any{"a": "A", "b": "B", "c": "C"}, Errors: []GraphQLError{}}
	if diff := cmp.Diff(wantRes, gotRes); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}

	// Sync fields resolve in document order; async ones wait for the flush.
	wantCalls := []Call{
		{Kind: CallKindSync, ObjectType: "Query", Field: "a", Args: map[string]any{}},
		{Kind: CallKindSync, ObjectType: "Query", Field: "c", Args: map[string]any{}},
		{Kind: CallKindAsync, ObjectType: "Query", Field: "b", Args: map[string]any{}, BatchID: 1, Selection: "b"},
	}
	if diff := cmp.Diff(wantCalls, rt.GetCalls()); diff != "" {
		t.Fatalf("Runtime calls mismatch (-want +got):\n%s", diff)
	}
}

func TestOrdering_FragmentMerge_DuplicateFields_Result(t *testing.T) {
	sch := mustBuildSchema(t, `
type Query { obj: Obj }
type Obj { a: Sub }
type Sub { x: String y: String }
`)
	rt := NewMockRuntime(map[string]MockResolver{
		"Query.obj": NewMockValueResolver(map[string]any{}),
		"Obj.a":     NewMockValueResolver(map[string]any{}),
		"Sub.x":     NewMockValueResolver("X"),
		"Sub.y":     NewMockValueResolver("Y"),
	})

	gotRes := NewExecutor(rt, sch).ExecuteRequest(context.Background(), mustParseQuery(t, "{ obj { a { x } a { y } } }"), "", nil, nil)

	wantRes := &ExecutionResult{Data: map[string]any{"obj": map[string]any{"a": map[string]any{"x": "X", "y": "Y"}}}, Errors: []GraphQLError{}}
	if diff := cmp.Diff(wantRes, gotRes); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}

	wantCalls := []Call{
		{Kind: CallKindSync, ObjectType: "Query", Field: "obj", Args: map[string]any{}},
		{Kind: CallKindSync, ObjectType: "Obj", Field: "a", Source: map[string]any{}, Args: map[string]any{}},
		{Kind: CallKindSync, ObjectType: "Sub", Field: "x", Source: map[string]any{}, Args: map[string]any{}},
		{Kind: CallKindSync, ObjectType: "Sub", Field: "y", Source: map[string]any{}, Args: map[string]any{}},
	}
	if diff := cmp.Diff(wantCalls, rt.GetCalls()); diff != "" {
		t.Fatalf("Runtime calls mismatch (-want +got):\n%s", diff)
	}
}

func TestOrdering_AsyncBatchesFollowDepth_Result(t *testing.T) {
	sch := mustBuildSchema(t, `
type Query { a: Obj b: Obj }
type Obj { leaf: String }
`, "Query.a", "Query.b", "Obj.leaf")
	rt := NewMockRuntime(map[string]MockResolver{
		"Query.a":  NewMockValueResolver(map[string]any{}),
		"Query.b":  NewMockValueResolver(map[string]any{}),
		"Obj.leaf": NewMockValueResolver("L"),
	})

	gotRes := NewExecutor(rt, sch).ExecuteRequest(context.Background(), mustParseQuery(t, "{ a { leaf } b { leaf } }"), "", nil, nil)

	wantRes := &ExecutionResult{
		Data:   map[string]any{"a": map[string]any{"leaf": "L"}, "b": map[string]any{"leaf": "L"}},
		Errors: []GraphQLError{},
	}
	if diff := cmp.Diff(wantRes, gotRes); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}

	var batches []int
	for _, c := range rt.GetCalls() {
		batches = append(batches, c.BatchID)
	}
	if diff := cmp.Diff([]int{1, 1, 2, 2}, batches); diff != "" {
		t.Fatalf("batch ids mismatch (-want +got):\n%s", diff)
	}
}
