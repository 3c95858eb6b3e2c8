package advisors

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	errx "github.com/nash-core-poc/server/internal/core/error"
)

// ChatModelAdvisor adapts any Eino chat model.
type ChatModelAdvisor struct {
	chatModel einomodel.BaseChatModel
	modelName string
}

func NewChatModelAdvisor(cm einomodel.BaseChatModel, modelName string) *ChatModelAdvisor {
	return &ChatModelAdvisor{chatModel: cm, modelName: modelName}
}

func (a *ChatModelAdvisor) Decide(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	out, err := a.chatModel.Generate(ctx, messages)
	if err != nil {
		return nil, errx.Unavailable(err, "chat model generate failed")
	}
	if out == nil {
		return nil, errx.Unavailable(fmt.Errorf("chat model %s returned no message", a.modelName), "chat model generate failed")
	}
	return out, nil
}

func (a *ChatModelAdvisor) ModelName() string {
	return a.modelName
}
