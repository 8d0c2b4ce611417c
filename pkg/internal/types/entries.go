// Package types 定义 HTTP 层的请求/响应结构.
package types

import "time"

// EntrySummary 列表视图中的条目.
type EntrySummary struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	ImageURL    string    `json:"imageUrl"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Confidence  *float64  `json:"confidence,omitempty"`
	Shared      bool      `json:"shared"`
}

// EntryDetail 单条目视图，分享开启时附带分享链接.
type EntryDetail struct {
	EntrySummary

	ImageMime   string  `json:"imageMime,omitempty"`
	ImageWidth  *int    `json:"imageWidth,omitempty"`
	ImageHeight *int    `json:"imageHeight,omitempty"`
	ShareURL    *string `json:"shareUrl,omitempty"`
}

// CreateEntryResponse 上传并分类成功后的响应.
type CreateEntryResponse struct {
	Entry EntryDetail `json:"entry"`
}

// EntryStatusResponse 删除/恢复操作的状态响应.
type EntryStatusResponse struct {
	Status string `json:"status"`
}

// ShareRequest 分享开关请求.
type ShareRequest struct {
	Enable bool `json:"enable"`
}

// ShareResponse 分享开关响应.
type ShareResponse struct {
	Entry EntryDetail `json:"entry"`
}
