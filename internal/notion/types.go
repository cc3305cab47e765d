// Package notion はNotion REST APIのステートレスなクライアントを提供する。
// トークンは保持せず、すべての操作で呼び出し元から受け取る。
package notion

// Notion APIのレスポンスは動的な形をしているため、
// すべての型はtypeディスクリミネータと省略可能なサブフィールドの組で表現し、
// 期待と異なる形は「値なし」として扱う（パニックやエラーにしない）。

// richText はリッチテキストスパン1つ分。
type richText struct {
	Type      string `json:"type"`
	PlainText string `json:"plain_text"`
	Text      *struct {
		Content string `json:"content"`
	} `json:"text"`
}

// icon はデータベース・ページのアイコン。emojiの場合のみ利用する。
type icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji"`
}

// dateValue はdate型プロパティの値。
type dateValue struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// fileValue はfiles型プロパティのエントリ1つ分。
// アップロードファイル（file.url）と外部URL（external.url）の2形がある。
type fileValue struct {
	Type string `json:"type"`
	Name string `json:"name"`
	File *struct {
		URL string `json:"url"`
	} `json:"file"`
	External *struct {
		URL string `json:"url"`
	} `json:"external"`
}

// selectValue はselect型プロパティの選択肢。
type selectValue struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// propertyValue はページの1プロパティ。Typeに応じたサブフィールドのみ有効。
// 未知のプロパティ型はサブフィールドがすべてゼロ値のままとなり、
// 抽出関数は「値なし」を返す。
type propertyValue struct {
	Type   string       `json:"type"`
	Title  []richText   `json:"title"`
	Date   *dateValue   `json:"date"`
	Files  []fileValue  `json:"files"`
	Select *selectValue `json:"select"`
}

// Page はデータベースの1行（Notionページ）の生レコード。
type Page struct {
	ID         string                   `json:"id"`
	URL        string                   `json:"url"`
	Properties map[string]propertyValue `json:"properties"`
}

// ImageURL は指定プロパティから画像URLを抽出する。
// プロパティの型がfilesで、先頭エントリがfile型またはexternal型の場合のみ値を返す。
func (p *Page) ImageURL(propName string) (string, bool) {
	prop, ok := p.Properties[propName]
	if !ok || prop.Type != "files" || len(prop.Files) == 0 {
		return "", false
	}

	f := prop.Files[0]
	switch f.Type {
	case "file":
		if f.File != nil && f.File.URL != "" {
			return f.File.URL, true
		}
	case "external":
		if f.External != nil && f.External.URL != "" {
			return f.External.URL, true
		}
	}
	return "", false
}

// TargetDate は指定プロパティから目標日（start）を抽出する。
// プロパティの型がdateの場合のみ値を返す。
func (p *Page) TargetDate(propName string) (string, bool) {
	prop, ok := p.Properties[propName]
	if !ok || prop.Type != "date" || prop.Date == nil || prop.Date.Start == "" {
		return "", false
	}
	return prop.Date.Start, true
}

// SelectName は指定プロパティからselectの選択肢名を抽出する。
func (p *Page) SelectName(propName string) (string, bool) {
	prop, ok := p.Properties[propName]
	if !ok || prop.Type != "select" || prop.Select == nil || prop.Select.Name == "" {
		return "", false
	}
	return prop.Select.Name, true
}

// Title は全プロパティを走査し、title型のプロパティから先頭スパンの
// プレーンテキストを返す。Notionのデータベースはtitle型プロパティを
// 必ず1つ持つが、そのカラム名はユーザー定義のため名前では特定できない。
func (p *Page) Title() (string, bool) {
	for _, prop := range p.Properties {
		if prop.Type != "title" || len(prop.Title) == 0 {
			continue
		}
		if prop.Title[0].PlainText != "" {
			return prop.Title[0].PlainText, true
		}
	}
	return "", false
}

// searchResponse は/searchのレスポンス。
type searchResponse struct {
	Results []databaseObject `json:"results"`
}

// databaseObject は/databases/{id}および/searchが返すデータベースオブジェクト。
type databaseObject struct {
	Object string     `json:"object"`
	ID     string     `json:"id"`
	Title  []richText `json:"title"`
	Icon   *icon      `json:"icon"`
}

// queryResponse は/databases/{id}/queryのレスポンス。
type queryResponse struct {
	Results []Page `json:"results"`
}
