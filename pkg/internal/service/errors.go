package service

import "errors"

// 服务层错误分类，handler 据此映射 HTTP 状态码.
var (
	// ErrNotFound 条目不存在，或在并发竞争中已被清理.
	ErrNotFound = errors.New("entry not found")
	// ErrNotDeleted 恢复操作的目标不在回收站中.
	ErrNotDeleted = errors.New("entry is not deleted")
	// ErrWindowExpired 删除时间超出恢复窗口.
	ErrWindowExpired = errors.New("restore window expired")
	// ErrUpstream 分类上游调用失败，绝不伪造结果.
	ErrUpstream = errors.New("classification failed")
	// ErrMissingImage 上传请求缺少图片.
	ErrMissingImage = errors.New("missing image")
	// ErrTooLarge 上传请求体超出大小上限.
	ErrTooLarge = errors.New("image too large")
)
