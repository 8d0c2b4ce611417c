// Package queue 定义消息主题常量，供发布/订阅使用.
package queue

// 主题命名规范：sv.<域>.<动作>，尽量稳定且向后兼容.
// 目前只有条目生命周期一个域.

const (
	// 条目生命周期领域.
	TopicEntryCreated  = "sv.entry.created"  // 图片上传并分类完成，条目写入数据库
	TopicEntryDeleted  = "sv.entry.deleted"  // 条目进入回收站（软删除）
	TopicEntryRestored = "sv.entry.restored" // 条目在恢复窗口内被恢复
	TopicEntryShared   = "sv.entry.shared"   // 条目开启分享，生成新令牌
	TopicEntryUnshared = "sv.entry.unshared" // 条目关闭分享，令牌失效
	TopicEntryPurged   = "sv.entry.purged"   // 回收站过期条目被物理删除（含图片）
)

// EntryTopics 条目生命周期主题集合，用于批量订阅.
var EntryTopics = []string{
	TopicEntryCreated, TopicEntryDeleted, TopicEntryRestored,
	TopicEntryShared, TopicEntryUnshared, TopicEntryPurged,
}
