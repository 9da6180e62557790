package notification

import (
	"context"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTelegramClient struct {
	sent []tgbotapi.MessageConfig

	// errsByCall 호출 횟수(1부터 시작)별로 반환할 에러입니다.
	errsByCall map[int]error

	calls int
}

func (f *fakeTelegramClient) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.calls++

	if err, exists := f.errsByCall[f.calls]; exists && err != nil {
		return tgbotapi.Message{}, err
	}

	msg, ok := c.(tgbotapi.MessageConfig)
	if ok {
		f.sent = append(f.sent, msg)
	}

	return tgbotapi.Message{}, nil
}

func TestBuildMessage(t *testing.T) {
	tests := []struct {
		name          string
		title         string
		message       string
		errorOccurred bool
		want          string
	}{
		{
			name:    "제목이 굵게 표시된다",
			title:   "가격 변동 알림",
			message: "핸드크림 가격이 인하되었습니다.",
			want:    "<b>가격 변동 알림</b>\n\n핸드크림 가격이 인하되었습니다.",
		},
		{
			name:    "제목의 HTML 특수문자는 이스케이프된다",
			title:   "<script>",
			message: "본문",
			want:    "<b>&lt;script&gt;</b>\n\n본문",
		},
		{
			name:    "제목 없이 본문만 발송할 수 있다",
			message: "본문",
			want:    "본문",
		},
		{
			name:          "오류 알림에는 오류 표시가 추가된다",
			message:       "작업이 실패하였습니다.",
			errorOccurred: true,
			want:          "작업이 실패하였습니다.\n\n🚨 오류가 발생하였습니다.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildMessage(tt.title, tt.message, tt.errorOccurred))
		})
	}
}

func TestTelegramNotifier_Notify(t *testing.T) {
	t.Run("짧은 메시지는 한 번에 전송된다", func(t *testing.T) {
		client := &fakeTelegramClient{}
		n := newTelegramNotifier("test", 100, client)

		n.Notify(context.Background(), "제목", "본문", false)

		require.Len(t, client.sent, 1)
		assert.Equal(t, int64(100), client.sent[0].ChatID)
		assert.Equal(t, tgbotapi.ModeHTML, client.sent[0].ParseMode)
		assert.Contains(t, client.sent[0].Text, "본문")
	})

	t.Run("긴 메시지는 줄 단위로 분할되어 전송된다", func(t *testing.T) {
		client := &fakeTelegramClient{}
		n := newTelegramNotifier("test", 100, client)

		line := strings.Repeat("가", 1000)
		message := strings.Join([]string{line, line, line}, "\n")

		n.Notify(context.Background(), "", message, false)

		require.Len(t, client.sent, 3)
		for _, sent := range client.sent {
			assert.LessOrEqual(t, len(sent.Text), messageMaxLength)
			// 멀티바이트 문자가 경계에서 깨지지 않아야 한다.
			assert.True(t, strings.HasPrefix(sent.Text, "가"))
		}
	})

	t.Run("HTML 파싱 오류 시 PlainText 모드로 전환하여 재시도한다", func(t *testing.T) {
		client := &fakeTelegramClient{
			errsByCall: map[int]error{
				1: &tgbotapi.Error{Code: 400, Message: "Bad Request: can't parse entities"},
			},
		}
		n := newTelegramNotifier("test", 100, client)

		n.Notify(context.Background(), "", "<b>닫히지 않은 태그", false)

		require.Len(t, client.sent, 1)
		assert.Empty(t, client.sent[0].ParseMode)
	})

	t.Run("재시도 불가능한 에러는 즉시 실패한다", func(t *testing.T) {
		client := &fakeTelegramClient{
			errsByCall: map[int]error{
				1: &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked"},
			},
		}
		n := newTelegramNotifier("test", 100, client)

		n.Notify(context.Background(), "", "본문", false)

		assert.Equal(t, 1, client.calls)
		assert.Empty(t, client.sent)
	})

	t.Run("일시적 에러는 재시도 후 성공한다", func(t *testing.T) {
		client := &fakeTelegramClient{
			errsByCall: map[int]error{
				1: &tgbotapi.Error{Code: 500, Message: "Internal Server Error"},
			},
		}
		n := newTelegramNotifier("test", 100, client)

		n.Notify(context.Background(), "", "본문", false)

		assert.Equal(t, 2, client.calls)
		require.Len(t, client.sent, 1)
	})
}

func TestSafeSplit(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		maxBytes      int
		wantChunk     string
		wantRemainder string
	}{
		{
			name:          "최대 크기 이하의 문자열은 분할되지 않는다",
			input:         "abc",
			maxBytes:      10,
			wantChunk:     "abc",
			wantRemainder: "",
		},
		{
			name:          "ASCII 문자열은 정확히 경계에서 분할된다",
			input:         "abcdef",
			maxBytes:      3,
			wantChunk:     "abc",
			wantRemainder: "def",
		},
		{
			name:          "멀티바이트 문자의 중간에서는 분할되지 않는다",
			input:         "가나다",
			maxBytes:      4,
			wantChunk:     "가",
			wantRemainder: "나다",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk, remainder := safeSplit(tt.input, tt.maxBytes)

			assert.Equal(t, tt.wantChunk, chunk)
			assert.Equal(t, tt.wantRemainder, remainder)
			assert.True(t, utf8ValidPair(chunk, remainder))
		})
	}
}

func utf8ValidPair(a, b string) bool {
	return strings.ToValidUTF8(a, "") == a && strings.ToValidUTF8(b, "") == b
}
