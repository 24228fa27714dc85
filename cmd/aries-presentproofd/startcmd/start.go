/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/mux"
	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/hyperledger/aries-presentproof-go/pkg/controller"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/dispatcher"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/messaging/service/basic"
	"github.com/hyperledger/aries-presentproof-go/pkg/didcomm/protocol/presentproof"
	arieshttp "github.com/hyperledger/aries-presentproof-go/pkg/didcomm/transport/http"
	"github.com/hyperledger/aries-presentproof-go/pkg/framework/aries"
	"github.com/hyperledger/aries-presentproof-go/pkg/store/correlation/sqlstore"
)

const (
	// api host flag.
	agentHostFlagName      = "api-host"
	agentHostEnvKey        = "ARIESPP_API_HOST"
	agentHostFlagShorthand = "a"
	agentHostFlagUsage     = "Host Name:Port." +
		" Alternatively, this can be set with the following environment variable: " + agentHostEnvKey

	// api token flag.
	agentTokenFlagName      = "api-token"
	agentTokenEnvKey        = "ARIESPP_API_TOKEN" // nolint:gosec
	agentTokenFlagShorthand = "t"
	agentTokenFlagUsage     = "Check for bearer token in the authorization header (optional)." +
		" Alternatively, this can be set with the following environment variable: " + agentTokenEnvKey

	// inbound path flag.
	agentInboundPathFlagName  = "inbound-path"
	agentInboundPathEnvKey    = "ARIESPP_INBOUND_PATH"
	agentInboundPathFlagUsage = "URL path accepting inbound DIDComm envelopes. Defaults to " + defaultInboundPath +
		". Alternatively, this can be set with the following environment variable: " + agentInboundPathEnvKey

	databaseTypeFlagName      = "database-type"
	databaseTypeEnvKey        = "ARIESPP_DATABASE_TYPE"
	databaseTypeFlagShorthand = "q"
	databaseTypeFlagUsage     = "The type of database used for correlation records. " +
		"Supported options: mem, sqlite. " +
		" Alternatively, this can be set with the following environment variable: " + databaseTypeEnvKey

	databasePathFlagName  = "database-path"
	databasePathEnvKey    = "ARIESPP_DATABASE_PATH"
	databasePathFlagUsage = "Path of the sqlite database file. Required when database-type is sqlite." +
		" Alternatively, this can be set with the following environment variable: " + databasePathEnvKey

	databaseTimeoutFlagName  = "database-timeout"
	databaseTimeoutEnvKey    = "ARIESPP_DATABASE_TIMEOUT"
	databaseTimeoutFlagUsage = "Total time in seconds to wait until the database is available before giving up." +
		" Default: " + databaseTimeoutDefault + " seconds." +
		" Alternatively, this can be set with the following environment variable: " + databaseTimeoutEnvKey
	databaseTimeoutDefault = "30"

	// webhook url flag.
	agentWebhookFlagName      = "webhook-url"
	agentWebhookEnvKey        = "ARIESPP_WEBHOOK_URL"
	agentWebhookFlagShorthand = "w"
	agentWebhookFlagUsage     = "URL to send notifications to." +
		" This flag can be repeated, allowing for multiple listeners." +
		" Alternatively, this can be set with the following environment variable (in CSV format): " +
		agentWebhookEnvKey

	// log level.
	agentLogLevelFlagName  = "log-level"
	agentLogLevelEnvKey    = "ARIESPP_LOG_LEVEL"
	agentLogLevelFlagUsage = "Log level." +
		" Possible values [INFO] [DEBUG] [ERROR] [WARNING] [CRITICAL] . Defaults to INFO if not set." +
		" Alternatively, this can be set with the following environment variable: " + agentLogLevelEnvKey

	// key seed flag.
	agentKeySeedFlagName  = "key-seed"
	agentKeySeedEnvKey    = "ARIESPP_KEY_SEED" // nolint:gosec
	agentKeySeedFlagUsage = "Hex encoded 32 byte seed of the agent signing key (optional)." +
		" A random key is generated when not set." +
		" Alternatively, this can be set with the following environment variable: " + agentKeySeedEnvKey

	// destination flag.
	agentDestinationFlagName      = "destination"
	agentDestinationEnvKey        = "ARIESPP_DESTINATION"
	agentDestinationFlagShorthand = "d"
	agentDestinationFlagUsage     = "Service endpoint of a peer in the form did=url." +
		" This flag can be repeated, allowing for multiple peers." +
		" Alternatively, this can be set with the following environment variable (in CSV format): " +
		agentDestinationEnvKey

	// outbound timeout flag.
	agentOutboundTimeoutFlagName  = "outbound-timeout"
	agentOutboundTimeoutEnvKey    = "ARIESPP_OUTBOUND_TIMEOUT"
	agentOutboundTimeoutFlagUsage = "Timeout of a single outbound HTTP post, e.g. 10s (optional)." +
		" Alternatively, this can be set with the following environment variable: " + agentOutboundTimeoutEnvKey

	// outbound retries flag.
	agentOutboundRetriesFlagName  = "outbound-retries"
	agentOutboundRetriesEnvKey    = "ARIESPP_OUTBOUND_RETRIES"
	agentOutboundRetriesFlagUsage = "Number of retries of a failed outbound HTTP post (optional)." +
		" Alternatively, this can be set with the following environment variable: " + agentOutboundRetriesEnvKey

	// packing mode flag.
	agentPackingModeFlagName  = "packing-mode"
	agentPackingModeEnvKey    = "ARIESPP_PACKING_MODE"
	agentPackingModeFlagUsage = "Packing of outbound presentation envelopes. Supported options: jws, none." +
		" Defaults to jws." +
		" Alternatively, this can be set with the following environment variable: " + agentPackingModeEnvKey

	agentTLSCertFileFlagName  = "tls-cert-file"
	agentTLSCertFileEnvKey    = "TLS_CERT_FILE"
	agentTLSCertFileFlagUsage = "tls certificate file." +
		" Alternatively, this can be set with the following environment variable: " + agentTLSCertFileEnvKey

	agentTLSKeyFileFlagName  = "tls-key-file"
	agentTLSKeyFileEnvKey    = "TLS_KEY_FILE"
	agentTLSKeyFileFlagUsage = "tls key file." +
		" Alternatively, this can be set with the following environment variable: " + agentTLSKeyFileEnvKey

	// env file flag.
	agentEnvFileFlagName  = "env-file"
	agentEnvFileFlagUsage = "Path of a dotenv file loaded before reading environment variables." +
		" Defaults to " + defaultEnvFile + " in the working directory when present."

	defaultInboundPath    = "/didcomm"
	defaultEnvFile        = ".env"
	outboundRetryInterval = 500 * time.Millisecond
	basicMessageService   = "basicmessage"

	databaseTypeMemOption    = "mem"
	databaseTypeSQLiteOption = "sqlite"
)

var (
	errMissingHost = errors.New("host not provided")
	logger         = log.New("aries-framework/presentproofd")
)

type agentParameters struct {
	server                    server
	host, inboundPath, token  string
	tlsCertFile, tlsKeyFile   string
	webhookURLs, destinations []string
	keySeed                   []byte
	packingMode               presentproof.PackingMode
	outboundTimeout           time.Duration
	outboundRetries           uint64
	dbParam                   *dbParam
}

type dbParam struct {
	dbType  string
	path    string
	timeout uint64
}

type server interface {
	ListenAndServe(host string, router http.Handler, certFile, keyFile string) error
}

// HTTPServer represents an actual HTTP server implementation.
type HTTPServer struct{}

// ListenAndServe starts the server using the standard Go HTTP server implementation.
func (s *HTTPServer) ListenAndServe(host string, router http.Handler, certFile, keyFile string) error {
	if certFile != "" && keyFile != "" {
		return http.ListenAndServeTLS(host, certFile, keyFile, router)
	}

	return http.ListenAndServe(host, router) // nolint:gosec
}

// Cmd returns the Cobra start command.
func Cmd(server server) (*cobra.Command, error) {
	startCmd := createStartCMD(server)

	createFlags(startCmd)

	return startCmd, nil
}

func createStartCMD(server server) *cobra.Command { //nolint: funlen
	return &cobra.Command{
		Use:   "start",
		Short: "Start a present-proof agent",
		Long:  "Start a present-proof agent serving DIDComm and its controller REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnvFile(cmd); err != nil {
				return err
			}

			host, err := getUserSetVar(cmd, agentHostFlagName, agentHostEnvKey, false)
			if err != nil {
				return err
			}

			token, err := getUserSetVar(cmd, agentTokenFlagName, agentTokenEnvKey, true)
			if err != nil {
				return err
			}

			inboundPath, err := getUserSetVar(cmd, agentInboundPathFlagName, agentInboundPathEnvKey, true)
			if err != nil {
				return err
			}

			if inboundPath == "" {
				inboundPath = defaultInboundPath
			}

			dbParam, err := getDBParam(cmd)
			if err != nil {
				return err
			}

			webhookURLs, err := getUserSetVars(cmd, agentWebhookFlagName, agentWebhookEnvKey, true)
			if err != nil {
				return err
			}

			destinations, err := getUserSetVars(cmd, agentDestinationFlagName, agentDestinationEnvKey, true)
			if err != nil {
				return err
			}

			logLevel, err := getUserSetVar(cmd, agentLogLevelFlagName, agentLogLevelEnvKey, true)
			if err != nil {
				return err
			}

			if err = setLogLevel(logLevel); err != nil {
				return err
			}

			keySeed, err := getKeySeed(cmd)
			if err != nil {
				return err
			}

			packingMode, err := getPackingMode(cmd)
			if err != nil {
				return err
			}

			outboundTimeout, outboundRetries, err := getOutboundParams(cmd)
			if err != nil {
				return err
			}

			tlsCertFile, err := getUserSetVar(cmd, agentTLSCertFileFlagName, agentTLSCertFileEnvKey, true)
			if err != nil {
				return err
			}

			tlsKeyFile, err := getUserSetVar(cmd, agentTLSKeyFileFlagName, agentTLSKeyFileEnvKey, true)
			if err != nil {
				return err
			}

			parameters := &agentParameters{
				server:          server,
				host:            host,
				inboundPath:     inboundPath,
				token:           token,
				tlsCertFile:     tlsCertFile,
				tlsKeyFile:      tlsKeyFile,
				webhookURLs:     webhookURLs,
				destinations:    destinations,
				keySeed:         keySeed,
				packingMode:     packingMode,
				outboundTimeout: outboundTimeout,
				outboundRetries: outboundRetries,
				dbParam:         dbParam,
			}

			return startAgent(parameters)
		},
	}
}

func loadEnvFile(cmd *cobra.Command) error {
	path, err := cmd.Flags().GetString(agentEnvFileFlagName)
	if err != nil {
		return fmt.Errorf(agentEnvFileFlagName+" flag not found: %s", err)
	}

	optional := path == ""
	if optional {
		path = defaultEnvFile
	}

	err = godotenv.Load(path)
	if err == nil {
		logger.Infof("environment loaded from %s", path)

		return nil
	}

	if optional && errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("failed to load env file '%s' : %w", path, err)
}

func getDBParam(cmd *cobra.Command) (*dbParam, error) {
	dbParam := &dbParam{}

	var err error

	dbParam.dbType, err = getUserSetVar(cmd, databaseTypeFlagName, databaseTypeEnvKey, false)
	if err != nil {
		return nil, err
	}

	dbParam.path, err = getUserSetVar(cmd, databasePathFlagName, databasePathEnvKey, true)
	if err != nil {
		return nil, err
	}

	dbTimeout, err := getUserSetVar(cmd, databaseTimeoutFlagName, databaseTimeoutEnvKey, true)
	if err != nil {
		return nil, err
	}

	if dbTimeout == "" {
		dbTimeout = databaseTimeoutDefault
	}

	dbParam.timeout, err = strconv.ParseUint(dbTimeout, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse db timeout %s: %w", dbTimeout, err)
	}

	return dbParam, nil
}

func getKeySeed(cmd *cobra.Command) ([]byte, error) {
	seedHex, err := getUserSetVar(cmd, agentKeySeedFlagName, agentKeySeedEnvKey, true)
	if err != nil {
		return nil, err
	}

	if seedHex == "" {
		return nil, nil
	}

	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("invalid key seed: %w", err)
	}

	return seed, nil
}

func getPackingMode(cmd *cobra.Command) (presentproof.PackingMode, error) {
	mode, err := getUserSetVar(cmd, agentPackingModeFlagName, agentPackingModeEnvKey, true)
	if err != nil {
		return "", err
	}

	switch presentproof.PackingMode(mode) {
	case "", presentproof.PackingJWS:
		return presentproof.PackingJWS, nil
	case presentproof.PackingNone:
		return presentproof.PackingNone, nil
	default:
		return "", fmt.Errorf("invalid packing mode '%s': supported options are %s, %s",
			mode, presentproof.PackingJWS, presentproof.PackingNone)
	}
}

func getOutboundParams(cmd *cobra.Command) (time.Duration, uint64, error) {
	timeoutStr, err := getUserSetVar(cmd, agentOutboundTimeoutFlagName, agentOutboundTimeoutEnvKey, true)
	if err != nil {
		return 0, 0, err
	}

	var timeout time.Duration

	if timeoutStr != "" {
		timeout, err = time.ParseDuration(timeoutStr)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to parse outbound timeout %s: %w", timeoutStr, err)
		}
	}

	retriesStr, err := getUserSetVar(cmd, agentOutboundRetriesFlagName, agentOutboundRetriesEnvKey, true)
	if err != nil {
		return 0, 0, err
	}

	var retries uint64

	if retriesStr != "" {
		retries, err = strconv.ParseUint(retriesStr, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to parse outbound retries %s: %w", retriesStr, err)
		}
	}

	return timeout, retries, nil
}

func createFlags(startCmd *cobra.Command) {
	// agent host flag
	startCmd.Flags().StringP(agentHostFlagName, agentHostFlagShorthand, "", agentHostFlagUsage)

	// api token flag
	startCmd.Flags().StringP(agentTokenFlagName, agentTokenFlagShorthand, "", agentTokenFlagUsage)

	// inbound path flag
	startCmd.Flags().StringP(agentInboundPathFlagName, "", "", agentInboundPathFlagUsage)

	// db type
	startCmd.Flags().StringP(databaseTypeFlagName, databaseTypeFlagShorthand, "", databaseTypeFlagUsage)

	// db path
	startCmd.Flags().StringP(databasePathFlagName, "", "", databasePathFlagUsage)

	// db timeout
	startCmd.Flags().StringP(databaseTimeoutFlagName, "", "", databaseTimeoutFlagUsage)

	// webhook url flag
	startCmd.Flags().StringSliceP(agentWebhookFlagName, agentWebhookFlagShorthand, []string{}, agentWebhookFlagUsage)

	// log level
	startCmd.Flags().StringP(agentLogLevelFlagName, "", "", agentLogLevelFlagUsage)

	// key seed
	startCmd.Flags().StringP(agentKeySeedFlagName, "", "", agentKeySeedFlagUsage)

	// destination flag
	startCmd.Flags().StringSliceP(agentDestinationFlagName, agentDestinationFlagShorthand, []string{},
		agentDestinationFlagUsage)

	// outbound flags
	startCmd.Flags().StringP(agentOutboundTimeoutFlagName, "", "", agentOutboundTimeoutFlagUsage)
	startCmd.Flags().StringP(agentOutboundRetriesFlagName, "", "", agentOutboundRetriesFlagUsage)

	// packing mode
	startCmd.Flags().StringP(agentPackingModeFlagName, "", "", agentPackingModeFlagUsage)

	// tls cert file
	startCmd.Flags().StringP(agentTLSCertFileFlagName, "", "", agentTLSCertFileFlagUsage)

	// tls key file
	startCmd.Flags().StringP(agentTLSKeyFileFlagName, "", "", agentTLSKeyFileFlagUsage)

	// env file
	startCmd.Flags().StringP(agentEnvFileFlagName, "", "", agentEnvFileFlagUsage)
}

func getUserSetVar(cmd *cobra.Command, flagName, envKey string, isOptional bool) (string, error) {
	if cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetString(flagName)
		if err != nil {
			return "", fmt.Errorf(flagName+" flag not found: %s", err)
		}

		return value, nil
	}

	value, isSet := os.LookupEnv(envKey)

	if isOptional || isSet {
		return value, nil
	}

	return "", errors.New("Neither " + flagName + " (command line flag) nor " + envKey +
		" (environment variable) have been set.")
}

func getUserSetVars(cmd *cobra.Command, flagName, envKey string, isOptional bool) ([]string, error) {
	if cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetStringSlice(flagName)
		if err != nil {
			return nil, fmt.Errorf(flagName+" flag not found: %s", err)
		}

		return value, nil
	}

	value, isSet := os.LookupEnv(envKey)

	var values []string

	if isSet {
		values = strings.Split(value, ",")
	}

	if isOptional || isSet {
		return values, nil
	}

	return nil, errors.New("Neither " + flagName + " (command line flag) nor " + envKey +
		" (environment variable) have been set.")
}

func getDestinations(destinations []string) (map[string]string, error) {
	endpoints := make(map[string]string, len(destinations))

	for _, d := range destinations {
		const numParts = 2

		parts := strings.SplitN(d, "=", numParts)
		if len(parts) != numParts || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid destination '%s': expected did=url", d)
		}

		endpoints[parts[0]] = parts[1]
	}

	return endpoints, nil
}

func setLogLevel(logLevel string) error {
	if logLevel != "" {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("failed to parse log level '%s' : %w", logLevel, err)
		}

		log.SetLevel("", level)

		logger.Infof("logger level set to %s", logLevel)
	}

	return nil
}

func validateAuthorizationBearerToken(w http.ResponseWriter, r *http.Request, token string) bool {
	actHdr := r.Header.Get("Authorization")
	expHdr := "Bearer " + token

	if subtle.ConstantTimeCompare([]byte(actHdr), []byte(expHdr)) != 1 {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("Unauthorised.\n")) // nolint:gosec,errcheck

		return false
	}

	return true
}

func authorizationMiddleware(token string) mux.MiddlewareFunc {
	middleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if validateAuthorizationBearerToken(w, r, token) {
				next.ServeHTTP(w, r)
			}
		})
	}

	return middleware
}

func startAgent(parameters *agentParameters) error {
	if parameters.host == "" {
		return errMissingHost
	}

	agent, err := createAriesAgent(parameters)
	if err != nil {
		return err
	}

	defer func() {
		if e := agent.Close(); e != nil {
			logger.Warnf("failed to close agent: %s", e)
		}
	}()

	router, err := createRouter(agent, parameters)
	if err != nil {
		return fmt.Errorf("failed to start present-proof agent on port [%s], cause:  %w", parameters.host, err)
	}

	logger.Infof("Starting present-proof agent %s on host [%s]", agent.DID(), parameters.host)
	// start server on given port and serve using given handlers
	handler := cors.New(
		cors.Options{
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodHead},
			AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		},
	).Handler(router)

	err = parameters.server.ListenAndServe(parameters.host, handler, parameters.tlsCertFile, parameters.tlsKeyFile)
	if err != nil {
		return fmt.Errorf("failed to start present-proof agent on port [%s], cause:  %w", parameters.host, err)
	}

	return nil
}

func createRouter(agent *aries.Aries, parameters *agentParameters) (*mux.Router, error) {
	inbound, err := arieshttp.NewInboundHandler(agent.InboundHandler().HandlerFunc(),
		agent.InboundHandler().MediaTypes()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create inbound handler: %w", err)
	}

	// get all HTTP REST API handlers available for controller API
	handlers, err := controller.GetRESTHandlers(agent, controller.WithWebhookURLs(parameters.webhookURLs...))
	if err != nil {
		return nil, fmt.Errorf("failed to get rest service api: %w", err)
	}

	router := mux.NewRouter()

	// peers authenticate with their envelopes, not with the api token
	router.Handle(parameters.inboundPath, inbound)

	api := router.NewRoute().Subrouter()

	if parameters.token != "" {
		api.Use(authorizationMiddleware(parameters.token))
	}

	for _, handler := range handlers {
		api.HandleFunc(handler.Path(), handler.Handle()).Methods(handler.Method())

		logger.Debugf("registered controller route %s %s", handler.Method(), handler.Path())
	}

	return router, nil
}

func createAriesAgent(parameters *agentParameters) (*aries.Aries, error) {
	var opts []aries.Option

	storeOpts, err := createCorrelationStore(parameters)
	if err != nil {
		return nil, err
	}

	opts = append(opts, storeOpts...)

	endpoints, err := getDestinations(parameters.destinations)
	if err != nil {
		return nil, err
	}

	opts = append(opts, aries.WithDestinationResolver(dispatcher.NewStaticResolver(endpoints)))

	outboundOpts := []arieshttp.OutboundHTTPOpt{arieshttp.WithRetries(parameters.outboundRetries, outboundRetryInterval)}
	if parameters.outboundTimeout > 0 {
		outboundOpts = append(outboundOpts, arieshttp.WithOutboundTimeout(parameters.outboundTimeout))
	}

	outbound, err := arieshttp.NewOutbound(outboundOpts...)
	if err != nil {
		return nil, fmt.Errorf("outbound transport initialization failed: %w", err)
	}

	opts = append(opts, aries.WithOutboundTransport(outbound))

	if parameters.keySeed != nil {
		opts = append(opts, aries.WithKeySeed(parameters.keySeed))
	}

	if parameters.packingMode != "" {
		opts = append(opts, aries.WithPresentProofOptions(presentproof.WithPackingMode(parameters.packingMode)))
	}

	basicSvc, err := basic.NewMessageService(basicMessageService, logBasicMessage)
	if err != nil {
		return nil, fmt.Errorf("failed to create basic message service: %w", err)
	}

	opts = append(opts, aries.WithMessageServices(basicSvc))

	framework, err := aries.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start present-proof agent on port [%s], failed to initialize framework :  %w",
			parameters.host, err)
	}

	return framework, nil
}

func logBasicMessage(msg basic.Message, from, to string) error {
	logger.Infof("basic message %s from %s to %s: %s", msg.ID, from, to, msg.Content)

	return nil
}

func createCorrelationStore(parameters *agentParameters) ([]aries.Option, error) {
	switch parameters.dbParam.dbType {
	case databaseTypeMemOption:
		return nil, nil
	case databaseTypeSQLiteOption:
	default:
		return nil, errors.New("database type not set to a valid type." +
			" run start --help to see the available options")
	}

	if parameters.dbParam.path == "" {
		return nil, fmt.Errorf("%s is required when the database type is %s",
			databasePathFlagName, databaseTypeSQLiteOption)
	}

	var store *sqlstore.Store

	err := backoff.RetryNotify(
		func() error {
			var openErr error
			store, openErr = sqlstore.New(parameters.dbParam.path)

			return openErr
		},
		backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Second), parameters.dbParam.timeout),
		func(retryErr error, t time.Duration) {
			logger.Warnf(
				"failed to connect to storage, will sleep for %s before trying again : %s\n",
				t, retryErr)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to storage at %s : %w", parameters.dbParam.path, err)
	}

	return []aries.Option{aries.WithCorrelationStore(store)}, nil
}
