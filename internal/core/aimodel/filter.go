package aimodel

import (
	"strings"
)

const (
	// generateContent 能力是所有分析請求的前提
	methodGenerateContent = "generateContent"

	// URL 輸入需要能吞下整頁文字的長上下文模型
	urlInputTokenThreshold = 1_000_000
)

// Model 可用的 AI 模型
type Model struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	InputTokenLimit            int      `json:"inputTokenLimit"`
}

// Evaluation 模型過濾結果：合格子集與目前選擇
type Evaluation struct {
	Eligible []Model
	Selected string
}

// IsURLInput 判斷輸入是否為影片 / 網頁連結
func IsURLInput(input string) bool {
	trimmed := strings.TrimSpace(input)
	return strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://")
}

// supportsGenerateContent 檢查模型是否支援內容生成
func supportsGenerateContent(m Model) bool {
	for _, method := range m.SupportedGenerationMethods {
		if method == methodGenerateContent {
			return true
		}
	}
	return false
}

// qualifiesForURL 檢查模型是否能處理 URL 輸入：
// 長上下文 token 上限，或名稱帶有 1.5 / pro / flash 系列標記
func qualifiesForURL(m Model) bool {
	if m.InputTokenLimit >= urlInputTokenThreshold {
		return true
	}
	name := strings.ToLower(m.Name)
	return strings.Contains(name, "1.5") ||
		strings.Contains(name, "pro") ||
		strings.Contains(name, "flash")
}

// Evaluate 依目前輸入重新計算合格模型子集與選擇。
// 純函數：每次輸入模式或目錄變更時整體重算，避免合格集與選擇之間產生漂移。
// 先前選擇只在仍然合格時保留，否則改選預設；合格集非空時選擇必不為空。
func Evaluate(catalog []Model, input string, previousSelection string) Evaluation {
	urlInput := IsURLInput(input)

	eligible := make([]Model, 0, len(catalog))
	for _, m := range catalog {
		if !supportsGenerateContent(m) {
			continue
		}
		if urlInput && !qualifiesForURL(m) {
			continue
		}
		eligible = append(eligible, m)
	}

	return Evaluation{
		Eligible: eligible,
		Selected: selectModel(eligible, previousSelection),
	}
}

// selectModel 保留仍合格的先前選擇，否則回到預設：
// 第一個名稱含 flash 的合格模型，否則第一個合格模型
func selectModel(eligible []Model, previous string) string {
	if previous != "" {
		for _, m := range eligible {
			if m.Name == previous {
				return previous
			}
		}
	}

	for _, m := range eligible {
		if strings.Contains(strings.ToLower(m.Name), "flash") {
			return m.Name
		}
	}

	if len(eligible) > 0 {
		return eligible[0].Name
	}
	return ""
}
