package main

import (
	"fmt"
	"os"
	"speech-coach-pipeline/application/ports/outbound"
	"speech-coach-pipeline/application/services"
	"speech-coach-pipeline/config"
	"speech-coach-pipeline/infrastructure/adapters"
	"speech-coach-pipeline/infrastructure/gin_interface/controllers"
	"speech-coach-pipeline/middleware"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	}))

	pipelineConfig, err := config.GetPipelineConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get pipeline config")
	}

	speechConfig, err := config.GetSpeechConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get speech config")
	}

	generationConfig, err := config.GetGenerationConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get generation config")
	}

	ttsConfig, err := config.GetTtsConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get tts config")
	}

	s3Config, err := config.GetS3Config()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get s3 config")
	}

	zeroLogger := adapters.NewZerologWrapper()

	maxConcurrentRuns := 4
	if raw := os.Getenv("MAX_CONCURRENT_RUNS"); raw != "" {
		maxConcurrentRuns, err = strconv.Atoi(raw)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to parse max concurrent runs")
		}
	}

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	workerPool, err := ants.NewPool(maxConcurrentRuns, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	s3Client := s3.New(sess, aws.NewConfig().WithRegion(s3Config.Region))

	// The artifact ledger is optional bookkeeping: without a table the
	// orphans of failed runs are simply left for manual cleanup.
	var ledger outbound.ArtifactLedgerPort
	dynamoConfig, err := config.GetDynamoConfig()
	if err != nil {
		zeroLogger.Warn("Artifact ledger disabled: " + err.Error())
	} else {
		ledger = adapters.NewDynamoArtifactLedger(zeroLogger, dynamodb.New(sess), dynamoConfig)
	}

	contentFetcher := adapters.NewContentFetcher(zeroLogger)

	blobStore := adapters.NewS3BlobStore(s3Client, s3Config)
	audioExtractor := adapters.NewFFMPEGAudioExtractor(zeroLogger, speechConfig.SampleRateHertz)
	transcriber := adapters.NewSpeechTranscriber(contentFetcher, speechConfig, zeroLogger)
	feedbackGenerator := adapters.NewGeminiFeedbackGenerator(generationConfig, zeroLogger)
	synthesizer := adapters.NewTtsSynthesizer(contentFetcher, ttsConfig, zeroLogger)

	pipelineRunner := services.NewPipelineSequencer(zeroLogger,
		services.NewAudioExtractionStage(zeroLogger, blobStore, audioExtractor, ledger, pipelineConfig.ScratchDir),
		services.NewTranscriptionStage(zeroLogger, transcriber, speechConfig.OperationTimeout),
		services.NewFeedbackGenerationStage(zeroLogger, feedbackGenerator),
		services.NewFeedbackSynthesisStage(zeroLogger, synthesizer, blobStore, ledger, pipelineConfig.ScratchDir),
	)

	runsController := controllers.NewCoachingRunsController(zeroLogger, workerPool, pipelineRunner)

	router := gin.Default()

	if err := router.SetTrustedProxies(nil); err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	jwksUrl := os.Getenv("JWKS_URL")
	if jwksUrl == "" {
		log.Fatal().Msg("JWKS_URL is not set!")
	}

	authHandler, err := middleware.NewAuthHandler(jwksUrl)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth handler!")
	}
	router.Use(authHandler.AuthMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.String(200, "ok")
	})

	runsController.RegisterRoutes(router)

	if err := router.Run(":8080"); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}
