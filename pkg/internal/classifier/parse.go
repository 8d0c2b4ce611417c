package classifier

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// ExtractJSON 从模型输出中提取候选 JSON：
// 取第一个 '{' 到最后一个 '}' 之间的子串.
// 模型偶尔会在 JSON 前后夹带客套话或 markdown 围栏，这样能兜住大多数情况.
func ExtractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start < 0 || end < start {
		return "", false
	}

	return text[start : end+1], true
}

// ParseClassification 解析模型输出为分类结果.
// 提取失败、JSON 非法或必填字段缺失都返回错误，不做任何补全.
func ParseClassification(text string) (*Classification, error) {
	candidate, ok := ExtractJSON(text)
	if !ok {
		return nil, fmt.Errorf("no JSON object in classifier output: %s", strings.TrimSpace(text))
	}

	var cls Classification
	if err := sonic.Unmarshal([]byte(candidate), &cls); err != nil {
		return nil, fmt.Errorf("invalid JSON in classifier output: %w", err)
	}

	if cls.Label == "" {
		return nil, fmt.Errorf("classifier output missing label")
	}

	if cls.Description == "" {
		return nil, fmt.Errorf("classifier output missing description")
	}

	if len(cls.Tags) == 0 {
		return nil, fmt.Errorf("classifier output missing tags")
	}

	if cls.Confidence != nil && (*cls.Confidence < 0 || *cls.Confidence > 1) {
		return nil, fmt.Errorf("classifier confidence out of range: %v", *cls.Confidence)
	}

	return &cls, nil
}
