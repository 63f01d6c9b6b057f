package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// APICatalog редактируемый реестр API (Aggregate Root).
// Хранится отдельно от snapshot: tick его не читает и не меняет.
// Порядок записей сохраняется, ключ записи - id.
type APICatalog struct {
	APIs []APIEntry
}

// NewAPICatalog создает пустой каталог
func NewAPICatalog() *APICatalog {
	return &APICatalog{APIs: []APIEntry{}}
}

// Clone возвращает независимую копию каталога
func (c *APICatalog) Clone() *APICatalog {
	if c == nil {
		return nil
	}
	return &APICatalog{APIs: cloneSlice(c.APIs)}
}

// Find возвращает запись по id и ее позицию
func (c *APICatalog) Find(id string) (APIEntry, int, bool) {
	for i, api := range c.APIs {
		if api.ID == id {
			return api, i, true
		}
	}
	return APIEntry{}, -1, false
}

// HasRoute сообщает, есть ли другая запись с тем же name, method и path
func (c *APICatalog) HasRoute(api APIEntry) bool {
	for _, existing := range c.APIs {
		if existing.ID != api.ID &&
			existing.Name == api.Name &&
			existing.Method == api.Method &&
			existing.Path == api.Path {
			return true
		}
	}
	return false
}

// MarshalJSON пишет {"apiList": {"<id>": {...}}} в порядке записей
func (c APICatalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"apiList":{`)
	for i, api := range c.APIs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(api.ID)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(api)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

// UnmarshalJSON читает apiList, сохраняя порядок ключей документа.
// Запись без id получает id из ключа.
func (c *APICatalog) UnmarshalJSON(data []byte) error {
	var doc struct {
		APIList json.RawMessage `json:"apiList"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	c.APIs = []APIEntry{}
	if len(doc.APIList) == 0 || string(doc.APIList) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(doc.APIList))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return fmt.Errorf("apiList must be an object keyed by id")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var api APIEntry
		if err := dec.Decode(&api); err != nil {
			return fmt.Errorf("apiList[%q]: %w", key, err)
		}
		if api.ID == "" {
			api.ID = key
		}
		c.APIs = append(c.APIs, api)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
