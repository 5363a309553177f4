package component

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	appsvc "video-pipeline-service/ddd/application/app"
	"video-pipeline-service/ddd/application/cqe"
	"video-pipeline-service/pkg/config"
	pkgkafka "video-pipeline-service/pkg/kafka"
	"video-pipeline-service/pkg/logger"
	"video-pipeline-service/pkg/manager"
)

func init() {
	manager.RegisterComponentPlugin(&UploadEventConsumerPlugin{})
}

// UploadEventConsumerPlugin consumes upload-finished events and triggers
// processing. With kafka disabled the plugin degrades to a no-op so the
// HTTP trigger remains the only entry point.
type UploadEventConsumerPlugin struct{}

func (p *UploadEventConsumerPlugin) Name() string { return "uploadEventConsumer" }

func (p *UploadEventConsumerPlugin) MustCreateComponent(deps *manager.Dependencies) manager.Component {
	var app appsvc.ProcessingApp
	if deps != nil {
		if v, ok := deps.ProcessingAppService.(appsvc.ProcessingApp); ok {
			app = v
		}
	}
	if app == nil {
		app = appsvc.DefaultProcessingApp()
	}

	cfg := deps.Config
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	return &uploadEventConsumer{app: app, cfg: cfg}
}

type uploadEventConsumer struct {
	app    appsvc.ProcessingApp
	cfg    *config.Config
	cancel context.CancelFunc
}

// uploadedEvent is the payload the upload service publishes after the
// source object lands in the blob store.
type uploadedEvent struct {
	AssetID   string `json:"asset_id"`
	OwnerID   string `json:"owner_id"`
	SourceKey string `json:"source_key"`
}

func (c *uploadEventConsumer) Start() error {
	if c.cfg == nil || !c.cfg.Kafka.Enabled {
		logger.Infof("upload event consumer disabled, processing only via HTTP trigger")
		return nil
	}

	var ctx context.Context
	ctx, c.cancel = context.WithCancel(context.Background())

	topic := c.cfg.Kafka.Topics.VideoUploaded
	groupID := c.cfg.Kafka.GroupID
	reader := pkgkafka.DefaultClient().Reader(topic, groupID)

	go func() {
		defer reader.Close()
		logger.Infof("Kafka consumer started topic=%s group=%s", topic, groupID)
		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "EOF") {
					logger.Debug("Kafka reader EOF")
				} else {
					logger.Warnf("Kafka read error error=%s", err.Error())
				}
				continue
			}

			var ev uploadedEvent
			if err := json.Unmarshal(msg.Value, &ev); err != nil {
				logger.Warnf("Kafka message unmarshal error error=%s", err.Error())
				continue
			}
			logger.Infof("upload event received asset_id=%s owner_id=%s", ev.AssetID, ev.OwnerID)

			req := &cqe.StartProcessingCqe{
				SourceKey: ev.SourceKey,
				OwnerID:   ev.OwnerID,
				AssetID:   ev.AssetID,
			}
			if err := c.app.StartProcessing(context.Background(), req); err != nil {
				logger.Warnf("StartProcessing failed asset_id=%s error=%s", ev.AssetID, err.Error())
			}
		}
	}()
	return nil
}

func (c *uploadEventConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	return nil
}

func (c *uploadEventConsumer) GetName() string { return "uploadEventConsumer" }
