package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/topic-osint/internal/domain"
	"github.com/kitbuilder587/topic-osint/internal/service"
)

const telegramMessageLimit = 4096

type Handler struct {
	bot *Bot
}

func NewHandler(bot *Bot) *Handler {
	return &Handler{bot: bot}
}

func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	h.bot.logger.Info("received message",
		zap.Int64("user_id", msg.From.ID),
		zap.String("username", msg.From.UserName),
		zap.Bool("is_command", msg.IsCommand()),
	)

	if msg.IsCommand() {
		if IsCrawlCommand(msg.Command()) {
			h.handleCrawl(ctx, msg)
			return
		}
		h.handleCommand(ctx, msg)
		return
	}

	h.handleCrawl(ctx, msg)
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		h.record("start", "ok")
		h.bot.Send(msg.Chat.ID, "Привет! Я ищу в открытых источниках публикации по теме.\n\nОтправьте тему сообщением или используйте /help.")
	case "help":
		h.record("help", "ok")
		h.bot.Send(msg.Chat.ID, helpText)
	default:
		h.record("unknown", "ok")
		h.bot.Send(msg.Chat.ID, "Неизвестная команда. Используйте /help для справки.")
	}
}

const helpText = `<b>Доступные команды:</b>

/start - Приветствие
/help - Показать эту справку

<b>Поиск:</b>
/crawl тема | год | страна - Стандартный обход (25 результатов)
/quick тема | год | страна - Быстрый обход (10 результатов)
/deep тема | год | страна - Глубокий обход (50 результатов)

Год и страна необязательны. Год: 2024 или диапазон 2022-2024. Страна: например United Kingdom.

<b>Примеры:</b>
• ransomware
• /crawl ransomware | 2024 | United Kingdom
• /quick data breach | 2023-2024
• /deep fintech regulation | any | India`

func (h *Handler) handleCrawl(ctx context.Context, msg *tgbotapi.Message) {
	req, strategy := ParseCrawlCommand(msg.Text, h.bot.defaultStrategy)

	if req.Topic == "" {
		h.record("crawl", "empty_topic")
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(domain.ErrEmptyTopic))
		return
	}

	if !h.bot.rateLimiter.Allow(msg.From.ID) {
		resetTime := h.bot.rateLimiter.ResetTime(msg.From.ID)
		h.bot.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", msg.From.ID),
			zap.Time("reset_at", resetTime),
		)
		h.bot.RecordRateLimitHit(msg.From.ID)
		h.record("crawl", "rate_limited")
		h.bot.Send(msg.Chat.ID, fmt.Sprintf("Слишком много запросов. Попробуйте через %d сек.", secondsUntil(resetTime)))
		return
	}

	h.bot.SendTyping(msg.Chat.ID)
	h.bot.Send(msg.Chat.ID, FormatStarted(req, strategy))

	h.bot.logger.Info("processing crawl with strategy",
		zap.Int64("user_id", msg.From.ID),
		zap.String("topic", req.Topic),
		zap.String("strategy_type", string(strategy.Type)),
		zap.Int("max_results", strategy.MaxResults),
		zap.Int("workers", strategy.Workers),
	)

	run, err := h.bot.crawler.CrawlWithOptions(ctx, req.Query(strategy), service.StrategyOptions(strategy))
	if err != nil {
		h.bot.logger.Error("crawl failed",
			zap.Error(err),
			zap.Int64("user_id", msg.From.ID),
		)
		h.record("crawl", "error")
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	if len(run.Records) == 0 {
		h.record("crawl", "empty")
		h.bot.Send(msg.Chat.ID, mapErrorToMessage(domain.ErrNoRecords))
		return
	}

	h.saveRun(ctx, run)
	h.record("crawl", "ok")

	formatted := FormatRun(run, h.bot.topRecords)
	for _, m := range SplitMessage(formatted, telegramMessageLimit) {
		if err := h.bot.Send(msg.Chat.ID, m); err != nil {
			h.bot.logger.Error("failed to send message", zap.Error(err))
		}
	}
}

// saveRun - ошибка сохранения не мешает ответу пользователю.
func (h *Handler) saveRun(ctx context.Context, run *domain.CrawlRun) {
	if h.bot.runs == nil {
		return
	}
	if err := h.bot.runs.SaveRun(ctx, run); err != nil {
		h.bot.logger.Warn("failed to save run",
			zap.String("run_id", run.ID),
			zap.Error(err),
		)
	}
}

func (h *Handler) record(reqType, status string) {
	if h.bot.metrics != nil {
		h.bot.metrics.RecordRequest(reqType, status)
	}
}

func secondsUntil(t time.Time) int {
	s := int(time.Until(t).Seconds()) + 1
	if s < 1 {
		return 1
	}
	return s
}

func mapErrorToMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyTopic):
		return "Пустая тема. Напишите, что искать: /crawl ransomware | 2024 | United Kingdom"
	case errors.Is(err, domain.ErrTopicTooLong):
		return fmt.Sprintf("Тема слишком длинная. Максимум %d символов.", domain.MaxTopicLength)
	case errors.Is(err, domain.ErrInvalidMaxResults):
		return "Некорректное число результатов."
	case errors.Is(err, domain.ErrSearchFailed):
		return "Поисковик недоступен. Попробуйте позже."
	case errors.Is(err, domain.ErrNoRecords):
		return "Ничего релевантного не найдено. Попробуйте расширить год или убрать страну."
	case errors.Is(err, context.DeadlineExceeded):
		return "Не успели за отведенное время. Попробуйте /quick."
	default:
		return "Произошла ошибка. Попробуйте позже."
	}
}
