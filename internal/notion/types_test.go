package notion

import (
	"encoding/json"
	"testing"
)

// decodePage はテスト用にJSONからPageを復元するヘルパー。
func decodePage(t *testing.T, raw string) *Page {
	t.Helper()
	var p Page
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("failed to unmarshal page: %v", err)
	}
	return &p
}

func TestPage_ImageURL_ExternalFile(t *testing.T) {
	p := decodePage(t, `{
		"id": "page-1",
		"properties": {
			"Image": {
				"type": "files",
				"files": [
					{"type": "external", "external": {"url": "https://example.com/cat.png"}}
				]
			}
		}
	}`)

	url, ok := p.ImageURL("Image")
	if !ok || url != "https://example.com/cat.png" {
		t.Errorf("ImageURL = %q, %v", url, ok)
	}
}

func TestPage_ImageURL_UploadedFile(t *testing.T) {
	p := decodePage(t, `{
		"properties": {
			"Image": {
				"type": "files",
				"files": [
					{"type": "file", "file": {"url": "https://s3.example.com/signed"}}
				]
			}
		}
	}`)

	url, ok := p.ImageURL("Image")
	if !ok || url != "https://s3.example.com/signed" {
		t.Errorf("ImageURL = %q, %v", url, ok)
	}
}

func TestPage_ImageURL_WrongTypeIsAbsent(t *testing.T) {
	// files型でないプロパティからは値を取り出さない（フォールトにもしない）
	p := decodePage(t, `{
		"properties": {
			"Image": {"type": "rich_text", "rich_text": [{"plain_text": "not a file"}]}
		}
	}`)

	if url, ok := p.ImageURL("Image"); ok {
		t.Errorf("ImageURL = %q, want absent", url)
	}
}

func TestPage_ImageURL_MissingPropertyIsAbsent(t *testing.T) {
	p := decodePage(t, `{"properties": {}}`)

	if _, ok := p.ImageURL("Image"); ok {
		t.Error("ImageURL should be absent for missing property")
	}
}

func TestPage_ImageURL_EmptyFilesIsAbsent(t *testing.T) {
	p := decodePage(t, `{
		"properties": {"Image": {"type": "files", "files": []}}
	}`)

	if _, ok := p.ImageURL("Image"); ok {
		t.Error("ImageURL should be absent for empty files array")
	}
}

func TestPage_TargetDate(t *testing.T) {
	p := decodePage(t, `{
		"properties": {
			"Due": {"type": "date", "date": {"start": "2030-01-01"}}
		}
	}`)

	date, ok := p.TargetDate("Due")
	if !ok || date != "2030-01-01" {
		t.Errorf("TargetDate = %q, %v", date, ok)
	}
}

func TestPage_TargetDate_NullDateIsAbsent(t *testing.T) {
	p := decodePage(t, `{
		"properties": {"Due": {"type": "date", "date": null}}
	}`)

	if _, ok := p.TargetDate("Due"); ok {
		t.Error("TargetDate should be absent for null date")
	}
}

func TestPage_TargetDate_WrongTypeIsAbsent(t *testing.T) {
	p := decodePage(t, `{
		"properties": {"Due": {"type": "checkbox", "checkbox": true}}
	}`)

	if _, ok := p.TargetDate("Due"); ok {
		t.Error("TargetDate should be absent for non-date property")
	}
}

func TestPage_SelectName(t *testing.T) {
	p := decodePage(t, `{
		"properties": {
			"Color": {"type": "select", "select": {"name": "🩷", "color": "pink"}}
		}
	}`)

	name, ok := p.SelectName("Color")
	if !ok || name != "🩷" {
		t.Errorf("SelectName = %q, %v", name, ok)
	}
}

func TestPage_SelectName_NullSelectIsAbsent(t *testing.T) {
	p := decodePage(t, `{
		"properties": {"Color": {"type": "select", "select": null}}
	}`)

	if _, ok := p.SelectName("Color"); ok {
		t.Error("SelectName should be absent for null select")
	}
}

func TestPage_Title_FoundByTypeScanNotByName(t *testing.T) {
	// title型プロパティのカラム名はユーザー定義。名前ではなく型で発見する。
	p := decodePage(t, `{
		"properties": {
			"Due": {"type": "date", "date": {"start": "2030-01-01"}},
			"なまえ": {
				"type": "title",
				"title": [{"type": "text", "plain_text": "期末試験"}]
			}
		}
	}`)

	title, ok := p.Title()
	if !ok || title != "期末試験" {
		t.Errorf("Title = %q, %v", title, ok)
	}
}

func TestPage_Title_AbsentWhenNoTitleProperty(t *testing.T) {
	p := decodePage(t, `{
		"properties": {
			"Due": {"type": "date", "date": {"start": "2030-01-01"}}
		}
	}`)

	if title, ok := p.Title(); ok {
		t.Errorf("Title = %q, want absent", title)
	}
}

func TestPage_Title_EmptySpansIsAbsent(t *testing.T) {
	p := decodePage(t, `{
		"properties": {"Name": {"type": "title", "title": []}}
	}`)

	if _, ok := p.Title(); ok {
		t.Error("Title should be absent for empty span list")
	}
}
