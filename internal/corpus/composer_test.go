package corpus

import (
	"testing"

	"github.com/safekb/safesearch/internal/domain"
)

var testFieldOrder = []string{"隐患描述", "检查依据", "整改建议", "检查对象"}

func TestCompose(t *testing.T) {
	rec := domain.Record{
		"隐患描述": "未戴安全帽",
		"检查依据": "规范A",
		"整改建议": "立即佩戴",
		"检查对象": "施工班组",
	}

	got := Compose(rec, testFieldOrder)
	want := "未戴安全帽 规范A 立即佩戴 施工班组"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompose_MissingFieldsBecomeEmpty(t *testing.T) {
	rec := domain.Record{"隐患描述": "电线裸露"}

	got := Compose(rec, testFieldOrder)
	want := "电线裸露   "
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompose_ExtraFieldsIgnored(t *testing.T) {
	rec := domain.Record{
		"隐患描述": "通道堵塞",
		"风险等级": "高",
	}

	got := Compose(rec, testFieldOrder)
	want := "通道堵塞   "
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestComposeAll_PreservesOrder(t *testing.T) {
	records := []domain.Record{
		{"隐患描述": "一"},
		{"隐患描述": "二"},
		{"隐患描述": "三"},
	}

	texts := ComposeAll(records, []string{"隐患描述"})
	if len(texts) != 3 {
		t.Fatalf("expected 3 texts, got %d", len(texts))
	}
	for i, want := range []string{"一", "二", "三"} {
		if texts[i] != want {
			t.Errorf("texts[%d] = %q, want %q", i, texts[i], want)
		}
	}
}
