package model

import "encoding/json"

// StringList 在 JSON 解码时同时接受原生数组与 JSON 编码的字符串，
// 解码失败时回退为空列表而不是让整个请求失败。
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	*l = nil
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		var inner []string
		if json.Unmarshal([]byte(s), &inner) == nil {
			*l = inner
		}
	}
	return nil
}

// FAQList 与 StringList 同理，元素为问答对。
type FAQList []FAQ

func (l *FAQList) UnmarshalJSON(data []byte) error {
	*l = nil
	var arr []FAQ
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		var inner []FAQ
		if json.Unmarshal([]byte(s), &inner) == nil {
			*l = inner
		}
	}
	return nil
}

// ParseStringList 解析表单里 JSON 编码的字符串列表，失败回退为空。
func ParseStringList(raw string) []string {
	if raw == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil
	}
	return list
}

// ParseFAQList 解析表单里 JSON 编码的问答列表，失败回退为空。
func ParseFAQList(raw string) []FAQ {
	if raw == "" {
		return nil
	}
	var list []FAQ
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil
	}
	return list
}

// PageMeta 描述列表接口的分页信息。
type PageMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}
