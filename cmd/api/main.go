package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-call-verify/internal/application/call"
	"github.com/go-call-verify/internal/application/disclosure"
	"github.com/go-call-verify/internal/application/script"
	"github.com/go-call-verify/internal/config"
	"github.com/go-call-verify/internal/infrastructure/awsinfra"
	"github.com/go-call-verify/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-call-verify/internal/infrastructure/jwt"
	"github.com/go-call-verify/internal/infrastructure/metrics"
	"github.com/go-call-verify/internal/infrastructure/openai"
	s3infra "github.com/go-call-verify/internal/infrastructure/s3"
	"github.com/go-call-verify/internal/infrastructure/sns"
	stripeinfra "github.com/go-call-verify/internal/infrastructure/stripe"
	"github.com/go-call-verify/internal/pkg/intent"
	"github.com/go-call-verify/internal/pkg/match"
	"github.com/go-call-verify/internal/pkg/normalize"
	transporthttp "github.com/go-call-verify/internal/transport/http"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	if cfg.AppEnv == "production" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsinfra.Load(ctx, cfg, "")
	if err != nil {
		log.Fatalf("aws config: %v", err)
	}

	dynamoClient := dynamo.NewClient(awsCfg, cfg.AWSEndpointURL)
	if cfg.DynamoBootstrap {
		dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)
	}
	accounts := dynamo.NewAccountRepo(dynamoClient, cfg.DynamoTables.Accounts)
	outcomes := dynamo.NewOutcomeRepo(dynamoClient, cfg.DynamoTables.Outcomes)

	s3Client := s3infra.NewClient(awsCfg, cfg.AWSEndpointURL)
	transcripts := s3infra.NewTranscriptStore(s3Client, s3.NewPresignClient(s3Client), cfg.S3BucketName)

	smsCfg, err := awsinfra.Load(ctx, cfg, cfg.SNSRegion)
	if err != nil {
		log.Fatalf("sns config: %v", err)
	}
	smsSender := sns.NewSender(sns.NewClient(smsCfg, cfg.AWSEndpointURL), cfg.SMSSenderID)

	// JWT provider (optional: without keys every route is open).
	var verifier *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, cfg.JWTExpiry); err == nil {
		verifier = p
	} else {
		log.Printf("WARN: JWT provider not available, auth disabled: %v", err)
	}

	order, err := normalize.ParseDateOrder(cfg.DateOrder)
	if err != nil {
		log.Fatalf("DATE_ORDER: %v", err)
	}
	aliases := match.DefaultAliases()
	if cfg.NicknamesPath != "" {
		if aliases, err = match.LoadAliasesFile(cfg.NicknamesPath); err != nil {
			log.Fatalf("nicknames: %v", err)
		}
	}
	loc, err := time.LoadLocation(cfg.CallTimeZone)
	if err != nil {
		log.Printf("WARN: unknown CALL_TIME_ZONE %q, using UTC: %v", cfg.CallTimeZone, err)
		loc = time.UTC
	}

	var classifier disclosure.IntentClassifier = intent.NewKeyword()
	if cfg.OpenAIAPIKey != "" {
		classifier = openai.NewClassifier(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	}

	callDeps := call.ServiceDeps{
		Accounts:         accounts,
		Outcomes:         outcomes,
		Transcripts:      transcripts,
		SMS:              smsSender,
		Classifier:       classifier,
		Scorer:           match.New(normalize.New(order), match.WithAliases(aliases)),
		Script:           script.New(cfg.AgencyName),
		Metrics:          metrics.New(prometheus.DefaultRegisterer),
		DefaultDateOrder: order,
		PaymentLinkBase:  cfg.PaymentLinkBaseURL,
		IdleTimeout:      cfg.SessionIdleTimeout,
		Location:         loc,
	}
	if cfg.StripeSecretKey != "" {
		sc := stripeinfra.NewClient(cfg.StripeSecretKey, cfg.StripeBaseURL, &http.Client{Timeout: 10 * time.Second})
		callDeps.Payments = stripeinfra.NewLinker(sc.CheckoutSessions, cfg.StripeSuccessURL)
	}
	calls := call.NewService(callDeps)
	go calls.Run(ctx, cfg.SweepInterval)

	deps := &transporthttp.Deps{
		Calls:       calls,
		Outcomes:    outcomes,
		Transcripts: transcripts,
		Gatherer:    prometheus.DefaultGatherer,
		Version:     version,
	}
	if verifier != nil {
		deps.Verifier = verifier
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(ctx, cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
