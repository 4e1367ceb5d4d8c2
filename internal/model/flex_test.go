package model

import (
	"encoding/json"
	"testing"
)

func TestStringListUnmarshal(t *testing.T) {
	t.Parallel()

	var l StringList
	if err := json.Unmarshal([]byte(`["go","sql"]`), &l); err != nil {
		t.Fatalf("unmarshal array: %v", err)
	}
	if len(l) != 2 || l[0] != "go" || l[1] != "sql" {
		t.Fatalf("list = %v, want [go sql]", l)
	}

	// 前端有时把列表再编码成字符串提交。
	if err := json.Unmarshal([]byte(`"[\"go\"]"`), &l); err != nil {
		t.Fatalf("unmarshal encoded string: %v", err)
	}
	if len(l) != 1 || l[0] != "go" {
		t.Fatalf("list = %v, want [go]", l)
	}

	if err := json.Unmarshal([]byte(`12345`), &l); err != nil {
		t.Fatalf("unmarshal garbage: %v", err)
	}
	if len(l) != 0 {
		t.Fatalf("list = %v, want empty on garbage", l)
	}
}

func TestFAQListUnmarshal(t *testing.T) {
	t.Parallel()

	var l FAQList
	if err := json.Unmarshal([]byte(`[{"question":"q1","answer":"a1"}]`), &l); err != nil {
		t.Fatalf("unmarshal array: %v", err)
	}
	if len(l) != 1 || l[0].Question != "q1" || l[0].Answer != "a1" {
		t.Fatalf("list = %v, want one faq", l)
	}

	if err := json.Unmarshal([]byte(`"not json"`), &l); err != nil {
		t.Fatalf("unmarshal garbage string: %v", err)
	}
	if len(l) != 0 {
		t.Fatalf("list = %v, want empty on garbage", l)
	}
}

func TestParseStringList(t *testing.T) {
	t.Parallel()

	if got := ParseStringList(`["a","b"]`); len(got) != 2 {
		t.Fatalf("got %v, want two items", got)
	}
	if got := ParseStringList("not json"); got != nil {
		t.Fatalf("got %v, want nil on garbage", got)
	}
	if got := ParseStringList(""); got != nil {
		t.Fatalf("got %v, want nil on empty", got)
	}
}

func TestParseFAQList(t *testing.T) {
	t.Parallel()

	got := ParseFAQList(`[{"question":"q","answer":"a"}]`)
	if len(got) != 1 || got[0].Question != "q" {
		t.Fatalf("got %v, want one faq", got)
	}
	if got := ParseFAQList("{broken"); got != nil {
		t.Fatalf("got %v, want nil on garbage", got)
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := Invalid("title", "jobType")
	ve, ok := AsValidation(err)
	if !ok {
		t.Fatal("AsValidation failed")
	}
	if len(ve.Fields) != 2 || ve.Fields[0] != "title" {
		t.Fatalf("fields = %v, want [title jobType]", ve.Fields)
	}

	if _, ok := AsValidation(ErrNotFound); ok {
		t.Fatal("ErrNotFound treated as validation error")
	}
}

func TestValidEnums(t *testing.T) {
	t.Parallel()

	if !ValidJobType(JobTypeFullTime) || ValidJobType("Gig") {
		t.Fatal("job type validation wrong")
	}
	if !ValidWorkMode(WorkModeRemote) || ValidWorkMode("Moon") {
		t.Fatal("work mode validation wrong")
	}
	if !ValidStatus(StatusDraft) || !ValidStatus(StatusPublished) || ValidStatus("archived") {
		t.Fatal("status validation wrong")
	}
}
