package mall

import (
	"net/url"
	"strings"

	"integrated-cart/internal/pkg/common"
)

// Type 購物商城類型
type Type string

const (
	Coupang Type = "COUPANG"
	Kurly   Type = "KURLY"
	Naver   Type = "NAVER"
	Bmart   Type = "BMART"

	// All 表示不限定商城，由後端搜尋所有支援的商城
	All Type = "ALL"
)

// AllTypes 回傳所有支援的商城，順序固定
func AllTypes() []Type {
	return []Type{Coupang, Kurly, Naver, Bmart}
}

// ParseType 解析商城類型字串，大小寫不敏感
func ParseType(s string) (Type, error) {
	switch Type(strings.ToUpper(strings.TrimSpace(s))) {
	case Coupang:
		return Coupang, nil
	case Kurly:
		return Kurly, nil
	case Naver:
		return Naver, nil
	case Bmart:
		return Bmart, nil
	case All:
		return All, nil
	}
	return "", common.ErrUnknownMall
}

// DisplayName 商城的韓文顯示名稱
func (t Type) DisplayName() string {
	switch t {
	case Coupang:
		return "쿠팡"
	case Kurly:
		return "마켓컬리"
	case Naver:
		return "네이버"
	case Bmart:
		return "B마트"
	}
	return string(t)
}

// SearchLink 產生商城的公開搜尋頁面 URL。
// 未知商城回退到 Naver 購物搜尋，B마트沒有獨立搜尋頁，借用 Naver 並加上前綴。
func SearchLink(t Type, keyword string) string {
	encoded := url.QueryEscape(keyword)
	switch t {
	case Coupang:
		return "https://www.coupang.com/np/search?q=" + encoded
	case Kurly:
		return "https://www.kurly.com/search?searchTerm=" + encoded
	case Naver:
		return "https://search.shopping.naver.com/search/all?query=" + encoded
	case Bmart:
		return "https://search.shopping.naver.com/search/all?query=" + url.QueryEscape("B마트 "+keyword)
	}
	return "https://search.shopping.naver.com/search/all?query=" + encoded
}
