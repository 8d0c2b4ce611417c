package classifier

import (
	"sync"

	"github.com/yeisme/scenevault/pkg/configs"
)

var (
	defaultOnce   sync.Once
	defaultClient *Client
)

// Default 返回全局分类客户端单例.
// 熔断器状态跨请求共享，因此客户端必须复用.
func Default() *Client {
	defaultOnce.Do(func() {
		defaultClient = New(configs.GetConfig().Classifier)
	})

	return defaultClient
}
