package cmd

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/hireflow/internal/ai/gemini"
	"github.com/spigell/hireflow/internal/decision"
	"github.com/spigell/hireflow/internal/events"
	"github.com/spigell/hireflow/internal/github"
	"github.com/spigell/hireflow/internal/interview"
	"github.com/spigell/hireflow/internal/logger"
	"github.com/spigell/hireflow/internal/mail"
	"github.com/spigell/hireflow/internal/notify"
	"github.com/spigell/hireflow/internal/pipeline"
	"github.com/spigell/hireflow/internal/resume"
	"github.com/spigell/hireflow/internal/screening"
	"github.com/spigell/hireflow/internal/secrets"
	"github.com/spigell/hireflow/internal/store"
	"github.com/spigell/hireflow/internal/vapi"
	"github.com/spigell/hireflow/internal/verify"
)

const (
	defaultAddr        = ":8000"
	defaultStoreDriver = "jsonl"
	defaultStorePath   = "candidates.jsonl"
)

// app holds everything both commands need after wiring.
type application struct {
	orchestrator *pipeline.Orchestrator
	events       *events.Log
	store        store.Store
	logger       *zap.Logger
}

func (a *application) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

func buildLogger() (*zap.Logger, error) {
	return logger.New(viper.GetBool("json"), viper.GetBool("debug"))
}

// buildApplication wires every collaborator of the pipeline from the resolved
// configuration. Optional integrations (notifications, mail, redis) degrade to
// no-ops when not configured; required ones (gemini, vapi) fail the command.
func buildApplication(ctx context.Context, config *Config, log *zap.Logger) (*application, error) {
	if config.AI == nil || config.AI.Gemini == nil {
		return nil, fmt.Errorf("ai.gemini configuration is required")
	}
	if config.Vapi == nil {
		return nil, fmt.Errorf("vapi configuration is required")
	}

	geminiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.AI.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	oracle, err := gemini.NewGenerator(ctx, geminiKey, config.AI.Gemini.Model, config.AI.Gemini.MaxRetries, log)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	vapiKey, err := secrets.Load(secrets.Source{
		Name: "vapi api key",
		File: config.Vapi.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	caller := vapi.New(vapiKey, config.Vapi.AssistantID, config.Vapi.PhoneNumberID, log)
	poller := vapi.NewPoller(caller, config.Vapi.PollInterval, config.Vapi.MaxWait, log)

	var githubToken string
	if config.GitHub != nil && config.GitHub.TokenFile != "" {
		githubToken, err = secrets.Load(secrets.Source{
			Name: "github token",
			File: config.GitHub.TokenFile,
		})
		if err != nil {
			return nil, err
		}
	}

	verifier := verify.New(github.New(githubToken, log), log)

	notifier, err := buildNotifier(config.Notify, log)
	if err != nil {
		return nil, err
	}

	mailer, schedulingLink, err := buildMailer(config.Mail, log)
	if err != nil {
		return nil, err
	}

	st, err := buildStore(config.Store)
	if err != nil {
		return nil, err
	}

	var sinks []events.Sink
	if config.Redis != nil && config.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: config.Redis.Addr})
		sinks = append(sinks, events.NewRedisSink(client, log))
		log.Info("publishing run events to redis", zap.String("addr", config.Redis.Addr))
	}
	eventLog := events.NewLog(sinks...)

	orchestrator := pipeline.New(pipeline.Deps{
		Extractor:   resume.NewParser(oracle),
		Screener:    screening.New(oracle, log),
		Verifier:    verifier,
		Interviewer: interview.New(oracle, log),
		Caller:      caller,
		Poller:      poller,
		Dispatcher:  decision.NewDispatcher(notifier, st, mailer, log),
		Mailer:      mailer,
		Events:      eventLog,
		Logger:      log,
	})
	orchestrator.SchedulingLink = schedulingLink

	return &application{
		orchestrator: orchestrator,
		events:       eventLog,
		store:        st,
		logger:       log,
	}, nil
}

func buildNotifier(config *NotifyConfig, log *zap.Logger) (notify.Notifier, error) {
	if config == nil || config.Provider == "" || config.Provider == "none" {
		log.Info("notifications are not configured, decisions will only be logged")
		return notify.Noop{}, nil
	}

	switch config.Provider {
	case "discord":
		if config.Discord == nil {
			return nil, fmt.Errorf("notify.discord configuration is required for the discord provider")
		}
		token, err := secrets.Load(secrets.Source{
			Name: "discord bot token",
			File: config.Discord.TokenFile,
		})
		if err != nil {
			return nil, err
		}
		return notify.NewDiscord(token, config.Discord.ChannelID)
	case "slack":
		if config.Slack == nil {
			return nil, fmt.Errorf("notify.slack configuration is required for the slack provider")
		}
		webhook, err := secrets.Load(secrets.Source{
			Name: "slack webhook url",
			File: config.Slack.WebhookURLFile,
		})
		if err != nil {
			return nil, err
		}
		return notify.NewSlack(webhook), nil
	default:
		return nil, fmt.Errorf("unknown notify provider %q", config.Provider)
	}
}

func buildMailer(config *MailConfig, log *zap.Logger) (mail.Sender, string, error) {
	if config == nil || config.Host == "" {
		log.Info("smtp is not configured, candidate emails will not be sent")
		return mail.Noop{}, "", nil
	}

	password, err := secrets.Load(secrets.Source{
		Name: "smtp password",
		File: config.PasswordFile,
	})
	if err != nil {
		return nil, "", err
	}

	sender, err := mail.NewSMTP(config.Host, config.Port, config.Username, password, config.From)
	if err != nil {
		return nil, "", fmt.Errorf("creating smtp client: %w", err)
	}

	return sender, config.SchedulingLink, nil
}

func buildStore(config *StoreConfig) (store.Store, error) {
	driver := defaultStoreDriver
	path := defaultStorePath
	if config != nil {
		if config.Driver != "" {
			driver = config.Driver
		}
		if config.Path != "" {
			path = config.Path
		}
	}

	switch driver {
	case "jsonl":
		return store.NewJSONL(path)
	case "sqlite":
		return store.NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
