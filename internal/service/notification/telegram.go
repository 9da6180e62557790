package notification

import (
	"context"
	"errors"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/giftdeum/gift-server/internal/config"
	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
	applog "github.com/giftdeum/gift-server/pkg/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

const (
	// messageMaxLength 텔레그램 Bot API가 허용하는 단일 메시지의 최대 길이입니다.
	// 초과하는 메시지는 전송 전에 분할됩니다.
	messageMaxLength = 4096

	// sendMaxRetries 전송 실패 시 최대 재시도 횟수입니다.
	sendMaxRetries = 3

	// sendRetryDelay 재시도 사이의 기본 대기 시간입니다.
	// 429 응답에 Retry-After가 포함된 경우 해당 값이 우선합니다.
	sendRetryDelay = 1 * time.Second
)

// telegramClient 텔레그램 Bot API 호출 경계입니다.
type telegramClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier 하나의 텔레그램 채팅으로 메시지를 발송하는 Notifier입니다.
type TelegramNotifier struct {
	id     string
	chatID int64

	client telegramClient

	rateLimiter *rate.Limiter
}

var _ Notifier = (*TelegramNotifier)(nil)

// NewTelegramNotifier 설정된 봇 토큰으로 텔레그램 Notifier를 생성합니다.
func NewTelegramNotifier(cfg *config.TelegramConfig) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.Unavailable, "텔레그램 봇 초기화에 실패하였습니다(notifier_id: %s)", cfg.ID)
	}

	return newTelegramNotifier(cfg.ID, cfg.ChatID, bot), nil
}

func newTelegramNotifier(id string, chatID int64, client telegramClient) *TelegramNotifier {
	return &TelegramNotifier{
		id:     id,
		chatID: chatID,

		client: client,

		// 텔레그램은 동일 채팅에 초당 1건 수준의 전송을 권장한다.
		rateLimiter: rate.NewLimiter(rate.Every(1*time.Second), 1),
	}
}

// ID Notifier의 고유 ID를 반환합니다.
func (n *TelegramNotifier) ID() string {
	return n.id
}

// Notify 알림 메시지를 텔레그램으로 발송합니다.
// 메시지가 최대 길이를 초과하는 경우 자동으로 분할하여 전송됩니다.
func (n *TelegramNotifier) Notify(ctx context.Context, title string, message string, errorOccurred bool) {
	n.sendMessage(ctx, buildMessage(title, message, errorOccurred))
}

// buildMessage 제목과 오류 표시를 포함한 최종 발송 메시지를 생성합니다.
//
// 텔레그램 Notifier는 HTML 서식을 지원하므로 메시지 본문의 HTML 태그는
// 이스케이프하지 않고 그대로 허용합니다. 제목은 사용자 입력이 그대로 굵게
// 표시되도록 이스케이프 처리합니다.
func buildMessage(title string, message string, errorOccurred bool) string {
	var sb strings.Builder

	if title != "" {
		sb.WriteString("<b>")
		sb.WriteString(html.EscapeString(title))
		sb.WriteString("</b>\n\n")
	}
	sb.WriteString(message)

	if errorOccurred {
		sb.WriteString("\n\n🚨 오류가 발생하였습니다.")
	}

	return sb.String()
}

// sendMessage 긴 메시지를 텔레그램 API 제한에 맞춰 분할하여 전송합니다.
//
// 가능한 한 줄바꿈 단위로 분할하여 문장이 중간에 잘리지 않도록 하고,
// 한 줄 자체가 최대 길이를 초과하는 경우에만 UTF-8 문자 경계를 존중하여
// 강제로 자릅니다. 중간 청크의 전송이 실패하면 나머지 전송을 중단합니다.
func (n *TelegramNotifier) sendMessage(ctx context.Context, message string) {
	if len(message) <= messageMaxLength {
		_ = n.sendChunk(ctx, message)
		return
	}

	var sb strings.Builder
	sb.Grow(messageMaxLength)

	for _, line := range strings.Split(message, "\n") {
		if ctx.Err() != nil {
			return
		}

		neededSpace := len(line)
		if sb.Len() > 0 {
			neededSpace++
		}

		if sb.Len()+neededSpace > messageMaxLength {
			if sb.Len() > 0 {
				if err := n.sendChunk(ctx, sb.String()); err != nil {
					return
				}
				sb.Reset()
			}

			// 한 줄 자체가 최대 길이를 초과하는 경우 강제 분할
			currentLine := line
			for len(currentLine) > messageMaxLength {
				if ctx.Err() != nil {
					return
				}

				chunk, remainder := safeSplit(currentLine, messageMaxLength)
				if err := n.sendChunk(ctx, chunk); err != nil {
					return
				}
				currentLine = remainder
			}
			sb.WriteString(currentLine)
		} else {
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(line)
		}
	}

	if sb.Len() > 0 {
		_ = n.sendChunk(ctx, sb.String())
	}
}

func (n *TelegramNotifier) sendChunk(ctx context.Context, message string) error {
	return n.attemptSendWithRetry(ctx, message, true)
}

// attemptSendWithRetry 텔레그램 메시지 전송을 시도하며, 실패 시 재시도합니다.
//
// 전송 전 Rate Limiter를 통과해야 하며, 일시적 오류(5xx, 429)는 최대 3회까지
// 재시도합니다. HTML 파싱 실패(400)가 발생하면 PlainText 모드로 전환하여
// 동일한 내용의 전송을 한 번 더 시도합니다.
func (n *TelegramNotifier) attemptSendWithRetry(ctx context.Context, message string, useHTML bool) error {
	messageConfig := tgbotapi.NewMessage(n.chatID, message)
	if useHTML {
		messageConfig.ParseMode = tgbotapi.ModeHTML
	}

	if err := n.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	var lastErr error

	for attempt := 1; attempt <= sendMaxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		_, err := n.client.Send(messageConfig)
		if err == nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"notifier_id":    n.id,
				"chat_id":        n.chatID,
				"attempt":        attempt,
				"message_length": len(message),
			}).Debug("텔레그램 메시지가 전송되었습니다.")

			return nil
		}

		lastErr = err
		errCode, retryAfter := parseTelegramError(err)

		// 400 응답은 대부분 HTML 파싱 실패이므로 PlainText 모드로 전환하여 재시도한다.
		if useHTML && errCode == 400 {
			applog.WithComponentAndFields(component, applog.Fields{
				"notifier_id": n.id,
				"error":       err,
			}).Warn("HTML 파싱 오류가 발생하여 PlainText 모드로 전환합니다.")

			return n.attemptSendWithRetry(ctx, message, false)
		}

		// 나머지 4xx 에러는 재시도해도 동일한 결과이므로 즉시 실패 처리한다.
		if errCode >= 400 && errCode < 500 && errCode != 429 {
			break
		}

		applog.WithComponentAndFields(component, applog.Fields{
			"notifier_id": n.id,
			"attempt":     attempt,
			"error":       err,
		}).Warn("텔레그램 메시지 전송에 실패하였습니다.")

		delay := sendRetryDelay
		if retryAfter > 0 {
			delay = time.Duration(retryAfter) * time.Second
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"notifier_id": n.id,
		"chat_id":     n.chatID,
		"error":       lastErr,
	}).Error("텔레그램 메시지 전송이 최종 실패하였습니다.")

	return lastErr
}

// parseTelegramError 텔레그램 API 에러에서 HTTP 상태 코드와 Retry-After 값을 추출합니다.
func parseTelegramError(err error) (code int, retryAfter int) {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		return tgErr.Code, tgErr.RetryAfter
	}
	return 0, 0
}

// safeSplit 문자열을 UTF-8 문자 경계를 존중하여 최대 maxBytes 크기로 분할합니다.
func safeSplit(s string, maxBytes int) (chunk string, remainder string) {
	if len(s) <= maxBytes {
		return s, ""
	}

	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		cut = maxBytes
	}

	return s[:cut], s[cut:]
}
