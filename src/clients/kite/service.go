package kite

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"tradebit/src/config"
	"tradebit/src/utils"
	redis_utils "tradebit/src/utils/redis"
	requests "tradebit/src/utils/requests"
)

const kiteVersion = "3"

type KiteServiceClientI interface {
	LoginURL() string
	GenerateSession(ctx context.Context, requestToken string) (*SessionData, error)
	GetProfile(ctx context.Context) (*Profile, error)
	GetMargins(ctx context.Context) error
	GetHoldings(ctx context.Context) ([]Holding, error)
	GetPositions(ctx context.Context) (*Positions, error)
	GetOrders(ctx context.Context) ([]Order, error)
	GetOrderHistory(ctx context.Context, orderID string) ([]Order, error)
	GetQuote(ctx context.Context, instruments ...string) (map[string]Quote, error)
	GetInstruments(ctx context.Context, exchange string) ([]Instrument, error)
	PlaceOrder(ctx context.Context, params *OrderParams) (string, error)
	SetAccessToken(token string)
	HasAccessToken() bool
}

// KiteServiceClient is a struct that uses ExternalAPIService to interact with
// the Kite Connect API on behalf of a single credential set.
type KiteServiceClient struct {
	API          *requests.ExternalAPIService
	BaseURL      string
	LoginBaseURL string
	APIKey       string
	APISecret    string
	AccessToken  string
	CacheHandler redis_utils.CacheHandlerI
}

// NewClient creates a new instance of KiteServiceClient. cacheHandler may be
// nil, in which case the instrument dump is fetched on every call.
func NewClient(cfg *config.Config, apiKey, apiSecret, accessToken string, cacheHandler redis_utils.CacheHandlerI) *KiteServiceClient {
	api := requests.NewExternalAPIService(nil)
	return &KiteServiceClient{
		API:          api,
		BaseURL:      cfg.ExternalClients.Kite.BaseURL,
		LoginBaseURL: cfg.ExternalClients.Kite.LoginURL,
		APIKey:       apiKey,
		APISecret:    apiSecret,
		AccessToken:  accessToken,
		CacheHandler: cacheHandler,
	}
}

func (s *KiteServiceClient) SetAccessToken(token string) {
	s.AccessToken = token
}

func (s *KiteServiceClient) HasAccessToken() bool {
	return s.AccessToken != ""
}

// LoginURL returns the URL the user must visit to authorize a new session.
// No network call is involved.
func (s *KiteServiceClient) LoginURL() string {
	return fmt.Sprintf("%s?api_key=%s&v=%s", s.LoginBaseURL, s.APIKey, kiteVersion)
}

func (s *KiteServiceClient) headers() map[string]string {
	h := map[string]string{
		"X-Kite-Version": kiteVersion,
		"User-Agent":     "TradeBit/1.0",
	}
	if s.AccessToken != "" {
		h["Authorization"] = fmt.Sprintf("Token %s:%s", s.APIKey, s.AccessToken)
	}
	return h
}

// doRequest executes one call against the Kite API and returns the unwrapped
// data payload. The response body is always a JSON envelope with a status
// field; status "error" carries the broker's message.
func (s *KiteServiceClient) doRequest(ctx context.Context, method, endpoint string, params url.Values, form url.Values) (json.RawMessage, error) {
	endpointURL := s.BaseURL + endpoint

	var httpResp *http.Response
	var doErr error
	switch method {
	case "GET":
		httpResp, doErr = s.API.Get(ctx, endpointURL, params, s.headers())
	case "POST":
		httpResp, doErr = s.API.PostForm(ctx, endpointURL, form, s.headers())
	case "DELETE":
		httpResp, doErr = s.API.Delete(ctx, endpointURL, params, s.headers())
	default:
		doErr = fmt.Errorf("unsupported method %s", method)
	}
	if doErr != nil {
		return nil, newTransportError(fmt.Sprintf("request to %s failed", endpoint), doErr)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, newTransportError(fmt.Sprintf("reading response from %s failed", endpoint), err)
	}

	if httpResp.StatusCode >= 300 {
		return nil, newTransportError(fmt.Sprintf("%s returned status %d", endpoint, httpResp.StatusCode), nil)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, newProtocolError(fmt.Sprintf("failed to parse response from %s", endpoint), err)
	}

	// The broker reports errors through the envelope even on 200 responses.
	if env.Status == "error" {
		message := env.Message
		if message == "" {
			message = "unknown error"
		}
		return nil, newApplicationError(message)
	}

	if len(env.Data) > 0 {
		return env.Data, nil
	}
	return json.RawMessage(body), nil
}

// decode unmarshals a data payload into target, classifying failures as
// protocol errors.
func decode(data json.RawMessage, endpoint string, target interface{}) error {
	if err := json.Unmarshal(data, target); err != nil {
		return newProtocolError(fmt.Sprintf("unexpected payload shape from %s", endpoint), err)
	}
	return nil
}

// GenerateSession exchanges a request token for an access token. The returned
// expiry is always 06:00 on the day after the exchange; the broker resets all
// sessions daily at that hour.
func (s *KiteServiceClient) GenerateSession(ctx context.Context, requestToken string) (*SessionData, error) {
	form := url.Values{}
	form.Set("api_key", s.APIKey)
	form.Set("request_token", requestToken)
	form.Set("checksum", s.APISecret)

	data, err := s.doRequest(ctx, "POST", "/session/token", nil, form)
	if err != nil {
		return nil, err
	}

	var session SessionData
	if err := decode(data, "/session/token", &session); err != nil {
		return nil, err
	}
	if session.AccessToken == "" {
		return nil, newProtocolError("session response missing access_token", nil)
	}

	s.AccessToken = session.AccessToken
	session.SessionExpiry = utils.NextSessionExpiry(time.Now())
	return &session, nil
}

// GetProfile retrieves the broker account profile.
func (s *KiteServiceClient) GetProfile(ctx context.Context) (*Profile, error) {
	data, err := s.doRequest(ctx, "GET", "/user/profile", nil, nil)
	if err != nil {
		return nil, err
	}
	var profile Profile
	if err := decode(data, "/user/profile", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetMargins is the lightweight authenticated probe used to check whether the
// stored access token is still accepted.
func (s *KiteServiceClient) GetMargins(ctx context.Context) error {
	_, err := s.doRequest(ctx, "GET", "/user/margins", nil, nil)
	return err
}

// GetHoldings retrieves the account's holdings.
func (s *KiteServiceClient) GetHoldings(ctx context.Context) ([]Holding, error) {
	data, err := s.doRequest(ctx, "GET", "/portfolio/holdings", nil, nil)
	if err != nil {
		return nil, err
	}
	var holdings []Holding
	if err := decode(data, "/portfolio/holdings", &holdings); err != nil {
		return nil, err
	}
	for i, h := range holdings {
		if h.Tradingsymbol == "" || h.Exchange == "" {
			return nil, newProtocolError(fmt.Sprintf("holding %d missing tradingsymbol or exchange", i), nil)
		}
	}
	return holdings, nil
}

// GetPositions retrieves day and net positions.
func (s *KiteServiceClient) GetPositions(ctx context.Context) (*Positions, error) {
	data, err := s.doRequest(ctx, "GET", "/portfolio/positions", nil, nil)
	if err != nil {
		return nil, err
	}
	var positions Positions
	if err := decode(data, "/portfolio/positions", &positions); err != nil {
		return nil, err
	}
	return &positions, nil
}

// GetOrders retrieves the day's orders.
func (s *KiteServiceClient) GetOrders(ctx context.Context) ([]Order, error) {
	data, err := s.doRequest(ctx, "GET", "/orders", nil, nil)
	if err != nil {
		return nil, err
	}
	var orders []Order
	if err := decode(data, "/orders", &orders); err != nil {
		return nil, err
	}
	for i, o := range orders {
		if o.OrderID == "" {
			return nil, newProtocolError(fmt.Sprintf("order %d missing order_id", i), nil)
		}
	}
	return orders, nil
}

// GetOrderHistory retrieves the state transitions of a single order.
func (s *KiteServiceClient) GetOrderHistory(ctx context.Context, orderID string) ([]Order, error) {
	endpoint := fmt.Sprintf("/orders/%s", orderID)
	data, err := s.doRequest(ctx, "GET", endpoint, nil, nil)
	if err != nil {
		return nil, err
	}
	var history []Order
	if err := decode(data, endpoint, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// GetQuote retrieves quotes for instruments given as "EXCHANGE:SYMBOL".
func (s *KiteServiceClient) GetQuote(ctx context.Context, instruments ...string) (map[string]Quote, error) {
	params := url.Values{}
	for _, instrument := range instruments {
		params.Add("i", instrument)
	}
	data, err := s.doRequest(ctx, "GET", "/quote", params, nil)
	if err != nil {
		return nil, err
	}
	quotes := make(map[string]Quote)
	if err := decode(data, "/quote", &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

// GetInstruments retrieves the tradable-instrument dump, optionally filtered
// by exchange. The dump only changes once a day so it is cached when a cache
// handler is configured.
func (s *KiteServiceClient) GetInstruments(ctx context.Context, exchange string) ([]Instrument, error) {
	endpoint := "/instruments"
	if exchange != "" {
		endpoint += "/" + exchange
	}

	var instruments []Instrument
	if s.CacheHandler != nil {
		if err := s.getCachedData(&instruments, "instruments", exchange, time.Now().Format(utils.ShortDashDateLayout)); err == nil && instruments != nil {
			return instruments, nil
		}
	}

	data, err := s.doRequest(ctx, "GET", endpoint, nil, nil)
	if err != nil {
		return nil, err
	}
	if err := decode(data, endpoint, &instruments); err != nil {
		return nil, err
	}

	if s.CacheHandler != nil {
		if err := s.cacheData(instruments, "instruments", exchange, time.Now().Format(utils.ShortDashDateLayout)); err != nil {
			utils.LoggerFromContext(ctx).Warnf("failed to cache instruments: %v", err)
		}
	}
	return instruments, nil
}

// PlaceOrder submits a regular order and returns the broker's order id.
// Optional params are only included in the form when set.
func (s *KiteServiceClient) PlaceOrder(ctx context.Context, params *OrderParams) (string, error) {
	form := url.Values{}
	form.Set("exchange", params.Exchange)
	form.Set("tradingsymbol", params.Tradingsymbol)
	form.Set("transaction_type", params.TransactionType)
	form.Set("quantity", formatFloat(params.Quantity))
	form.Set("product", params.Product)
	form.Set("order_type", params.OrderType)
	form.Set("validity", params.Validity)
	form.Set("disclosed_quantity", formatFloat(params.DisclosedQuantity))

	if params.Price != nil {
		form.Set("price", formatFloat(*params.Price))
	}
	if params.TriggerPrice != nil {
		form.Set("trigger_price", formatFloat(*params.TriggerPrice))
	}
	if params.Squareoff != nil {
		form.Set("squareoff", formatFloat(*params.Squareoff))
	}
	if params.Stoploss != nil {
		form.Set("stoploss", formatFloat(*params.Stoploss))
	}
	if params.TrailingStoploss != nil {
		form.Set("trailing_stoploss", formatFloat(*params.TrailingStoploss))
	}
	if params.Tag != nil {
		form.Set("tag", *params.Tag)
	}

	data, err := s.doRequest(ctx, "POST", "/orders/regular", nil, form)
	if err != nil {
		return "", err
	}

	var result struct {
		OrderID string `json:"order_id"`
	}
	if err := decode(data, "/orders/regular", &result); err != nil {
		return "", err
	}
	if result.OrderID == "" {
		return "", newProtocolError("order response missing order_id", nil)
	}
	return result.OrderID, nil
}

func (s *KiteServiceClient) getCachedData(target interface{}, keys ...string) error {
	key, err := redis_utils.GenerateUUID(keys...)
	if err != nil {
		return err
	}
	return s.CacheHandler.Get(key, target)
}

func (s *KiteServiceClient) cacheData(value interface{}, keys ...string) error {
	key, err := redis_utils.GenerateUUID(keys...)
	if err != nil {
		return err
	}
	return s.CacheHandler.Set(key, value, 24*time.Hour)
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}
