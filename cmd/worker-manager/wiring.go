// cmd/worker-manager/wiring.go
package main

import (
	"context"
	"time"

	"lead-intelligence/internal/chat/turn"
	"lead-intelligence/internal/chat/usercontext"
	commonaws "lead-intelligence/internal/common/aws"
	"lead-intelligence/internal/common/camunda"
	"lead-intelligence/internal/common/config"
	"lead-intelligence/internal/common/database"
	"lead-intelligence/internal/common/logger"
	"lead-intelligence/internal/common/observability"
	"lead-intelligence/internal/common/zoho"
	"lead-intelligence/internal/lead/notify"
	"lead-intelligence/internal/lead/persistence"
	"lead-intelligence/internal/lead/store"
	"lead-intelligence/internal/llm"

	generatecardcontent "lead-intelligence/internal/workers/chat/generate-card-content"
	processchatturn "lead-intelligence/internal/workers/chat/process-chat-turn"
	checkleadpriority "lead-intelligence/internal/workers/lead/check-lead-priority"
	generateleadintelligence "lead-intelligence/internal/workers/lead/generate-lead-intelligence"
	persistleadintelligence "lead-intelligence/internal/workers/lead/persist-lead-intelligence"
	sendleadnotification "lead-intelligence/internal/workers/notification/send-lead-notification"
	syncmailinglist "lead-intelligence/internal/workers/notification/sync-mailing-list"
)

// dependencies are the shared collaborators. Interface fields stay nil when a backend is absent.
type dependencies struct {
	records     *store.PostgresStore
	cache       *store.ContextCache
	notifier    *notify.SalesNotifier
	mailingList *notify.ZohoMailingList
	persistence *persistence.Service
	processor   *turn.Processor
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func buildDependencies(ctx context.Context, cfg *config.Config, stores *database.Stores, obs *observability.Observability, log logger.Logger) *dependencies {
	deps := &dependencies{}
	opts := persistence.Options{
		Observability:   obs,
		WriteAttempts:   cfg.Chat.WriteRetries,
		DispatchTimeout: config.GetDuration(cfg.Notifications.Timeout),
	}
	var records persistence.RecordStore
	var contexts turn.ContextStore

	if stores.Postgres != nil {
		if err := stores.Postgres.Migrate(ctx, store.Schema); err != nil {
			log.Error("schema migration failed, running without lead store", map[string]interface{}{"error": err.Error()})
		} else {
			deps.records = store.NewPostgresStore(stores.Postgres.DB)
			records = deps.records
		}
	}

	if stores.Redis != nil {
		deps.cache = store.NewContextCache(stores.Redis.Client, seconds(cfg.Chat.ContextTTL), seconds(cfg.Chat.PriorityCacheTTL))
		opts.Cache = deps.cache
		contexts = deps.cache
	}

	if stores.Elasticsearch != nil {
		index := cfg.Database.Elasticsearch.LeadIndex
		if err := stores.Elasticsearch.EnsureIndex(ctx, index, notify.LeadIndexMapping); err != nil {
			log.Warn("lead index unavailable, search indexing disabled", map[string]interface{}{"index": index, "error": err.Error()})
		} else {
			opts.Indexer = notify.NewElasticsearchIndexer(stores.Elasticsearch.Client, index)
		}
	}

	var email notify.EmailSender
	var sms notify.SMSSender
	awsCfg := cfg.Integrations.AWS
	if awsCfg.SES.Enabled {
		if ses, err := commonaws.NewSESClient(ctx, awsCfg.Region, awsCfg.SES.FromEmail); err != nil {
			log.Warn("ses disabled", map[string]interface{}{"error": err.Error()})
		} else {
			email = ses
		}
	}
	if awsCfg.SNS.Enabled {
		if sns, err := commonaws.NewSNSClient(ctx, awsCfg.Region, awsCfg.SNS.DefaultSMSSenderID); err != nil {
			log.Warn("sns disabled", map[string]interface{}{"error": err.Error()})
		} else {
			sms = sns
		}
	}
	deps.notifier = notify.NewSalesNotifier(email, sms, cfg.Notifications, awsCfg.SNS.SalesPhoneNumbers, log)
	opts.Notifier = deps.notifier

	if cfg.Integrations.Zoho.Enabled {
		crm := zoho.NewCRMClient(cfg.Integrations.Zoho, config.GetDuration(cfg.Notifications.Timeout))
		deps.mailingList = notify.NewZohoMailingList(crm, log)
		opts.MailingList = deps.mailingList
	}

	deps.persistence = persistence.NewService(records, opts, log)

	var responder turn.Responder
	if cfg.Chat.LLMEnabled {
		responder = llm.NewResponder(cfg.APIs.OpenAI, cfg.Chat.MaxHistory, log)
	}
	deps.processor = turn.NewProcessor(turn.Options{
		Contexts:      contexts,
		Responder:     responder,
		Saver:         deps.persistence,
		Random:        usercontext.NewRandomSource(cfg.Chat.RandomSeed),
		Observability: obs,
		LLMTimeout:    config.GetDuration(cfg.APIs.OpenAI.Timeout),
	}, log)

	return deps
}

type workerConfig interface {
	Validate() error
}

type registration struct {
	taskType string
	enabled  bool
	config   workerConfig
	handler  camunda.JobHandler
}

func registrations(cfg *config.Config, deps *dependencies, log logger.Logger) []registration {
	var priorityCache checkleadpriority.PriorityCache
	if deps.cache != nil {
		priorityCache = deps.cache
	}
	var intelligence checkleadpriority.IntelligenceReader
	if deps.records != nil {
		intelligence = deps.records
	}
	var list syncmailinglist.MailingList
	if deps.mailingList != nil {
		list = deps.mailingList
	}

	pct := processchatturn.CreateConfigFromAppConfig(cfg)
	gcc := generatecardcontent.CreateConfigFromAppConfig(cfg)
	gli := generateleadintelligence.CreateConfigFromAppConfig(cfg)
	pli := persistleadintelligence.CreateConfigFromAppConfig(cfg)
	clp := checkleadpriority.CreateConfigFromAppConfig(cfg)
	sln := sendleadnotification.CreateConfigFromAppConfig(cfg)
	sml := syncmailinglist.CreateConfigFromAppConfig(cfg)

	return []registration{
		{processchatturn.TaskType, pct.Enabled, pct, processchatturn.NewHandler(pct, deps.processor, log)},
		{generatecardcontent.TaskType, gcc.Enabled, gcc, generatecardcontent.NewHandler(gcc, log)},
		{generateleadintelligence.TaskType, gli.Enabled, gli, generateleadintelligence.NewHandler(gli, nil, log)},
		{persistleadintelligence.TaskType, pli.Enabled, pli, persistleadintelligence.NewHandler(pli, deps.persistence, log)},
		{checkleadpriority.TaskType, clp.Enabled, clp, checkleadpriority.NewHandler(clp, priorityCache, intelligence, log)},
		{sendleadnotification.TaskType, sln.Enabled, sln, sendleadnotification.NewHandler(sln, deps.notifier, log)},
		{syncmailinglist.TaskType, sml.Enabled, sml, syncmailinglist.NewHandler(sml, list, log)},
	}
}

// startWorkers opens a job worker for every enabled task type with a valid config.
func startWorkers(cfg *config.Config, zeebe *camunda.Client, deps *dependencies, obs *observability.Observability, log logger.Logger) []*camunda.CamundaWorker {
	var started []*camunda.CamundaWorker
	for _, r := range registrations(cfg, deps, log) {
		if !r.enabled {
			log.Info("worker disabled", map[string]interface{}{"taskType": r.taskType})
			continue
		}
		if err := r.config.Validate(); err != nil {
			log.Error("invalid worker config, not starting", map[string]interface{}{"taskType": r.taskType, "error": err.Error()})
			continue
		}
		started = append(started, camunda.NewWorker(zeebe.GetClient(), r.taskType, config.GetWorkerConfig(cfg, r.taskType), r.handler, obs, log))
	}
	return started
}
