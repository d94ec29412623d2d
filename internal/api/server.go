package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"lifesim/internal/bills"
	"lifesim/internal/catalog"
	"lifesim/internal/config"
	"lifesim/internal/game"
	"lifesim/internal/market"
	"lifesim/internal/save"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

var errNoSession = errors.New("no active session: start or load a game first")

// Server hosts one game session behind the HTTP boundary. The session
// mutex serializes every player-aggregate mutation and guards the feed
// pointer, which can be swapped at runtime; catalog reads need no lock
// because catalogs are immutable after load.
type Server struct {
	cfg      config.APIConfig
	log      *slog.Logger
	catalogs *catalog.Catalogs
	store    save.Store
	mux      *chi.Mux

	mu     sync.Mutex
	series *market.Series
	player *game.Player
	bills  *bills.Manager
}

func New(cfg config.APIConfig, logger *slog.Logger, catalogs *catalog.Catalogs, store save.Store, series *market.Series) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		log:      logger,
		catalogs: catalogs,
		store:    store,
		series:   series,
		mux:      chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/game/new", s.handleNewGame)
		r.Get("/player", s.handlePlayer)

		r.Get("/saves", s.handleSavesList)
		r.Post("/saves/{slot}", s.handleSave)
		r.Post("/saves/{slot}/load", s.handleLoad)

		r.Get("/stocks", s.handleStocksList)
		r.Get("/stocks/{ticker}", s.handleStockDetail)
		r.Post("/orders", s.handleOrder)

		r.Get("/bills", s.handleBillsList)
		r.Post("/bills/{id}/pay", s.handlePayBill)
		r.Post("/bills/pay-all", s.handlePayAll)

		r.Post("/day/advance", s.handleAdvanceDay)
		r.Post("/market/feed", s.handleFeedLoad)
		r.Get("/market/days/{day}", s.handleMarketDay)

		r.Post("/actions/work", s.handleWork)
		r.Post("/actions/move", s.handleMove)
		r.Post("/actions/talk", s.handleTalk)
		r.Post("/actions/event", s.handleEvent)
		r.Post("/actions/consume", s.handleConsume)
		r.Post("/actions/buy-item", s.handleBuyItem)
	})
}

func (s *Server) newBillManager(week int) *bills.Manager {
	policy := bills.DefaultPolicy(s.cfg.BillSeed, s.cfg.BillMin, s.cfg.BillMax)
	return bills.NewManager(week, s.cfg.BillsPerWeek, policy, s.log)
}

// priceFor is the trading price of a stock on the current game day: the
// catalog reference price scaled by the feed's day-1-relative open. Without
// a feed, or past the feed's last trading date, the reference price stands.
func (s *Server) priceFor(stock catalog.Stock, day int) float64 {
	if s.series == nil || s.series.Days() == 0 {
		return stock.RefPrice
	}
	open, err := s.series.PriceForDay(day)
	if err != nil {
		return stock.RefPrice
	}
	base, err := s.series.PriceForDay(1)
	if err != nil || base == 0 {
		return stock.RefPrice
	}
	return stock.RefPrice * open / base
}

type playerView struct {
	Name      string             `json:"name"`
	Day       int                `json:"day"`
	Week      int                `json:"week"`
	Zone      string             `json:"zone"`
	Cash      float64            `json:"cash"`
	Stats     map[string]int     `json:"stats"`
	Inventory map[string]int     `json:"inventory"`
	NPCScores map[string]int     `json:"npc_scores"`
	EventLog  []string           `json:"event_log"`
	Portfolio map[string]float64 `json:"portfolio"`
}

func viewOf(p *game.Player) playerView {
	return playerView{
		Name:      p.Name,
		Day:       p.Day,
		Week:      p.Week(),
		Zone:      p.Zone,
		Cash:      p.Cash,
		Stats:     p.Stats,
		Inventory: p.Inventory,
		NPCScores: p.NPCScores,
		EventLog:  p.EventLog,
		Portfolio: p.Portfolio,
	}
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
		Zone string `json:"zone"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	zone := in.Zone
	if zone == "" {
		zone = "apartment"
	}
	if _, err := s.catalogs.LookupZone(zone); err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.player = game.NewPlayer(in.Name, zone)
	s.bills = s.newBillManager(s.player.Week())
	s.log.Info("new game", "player", in.Name, "zone", zone)
	writeJSON(w, http.StatusCreated, viewOf(s.player))
}

func (s *Server) handlePlayer(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		s.writeDomainError(w, errNoSession)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(s.player))
}

func (s *Server) handleSavesList(w http.ResponseWriter, r *http.Request) {
	slots, err := s.store.List(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if slots == nil {
		slots = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": slots})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	slot := chi.URLParam(r, "slot")
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		s.writeDomainError(w, errNoSession)
		return
	}
	if err := save.Save(r.Context(), s.store, slot, s.player); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.log.Info("game saved", "slot", slot, "day", s.player.Day)
	writeJSON(w, http.StatusOK, map[string]any{"slot": slot})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	slot := chi.URLParam(r, "slot")
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := save.Load(r.Context(), s.store, slot, s.catalogs)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.player = p
	s.bills = s.newBillManager(p.Week())
	s.log.Info("game loaded", "slot", slot, "player", p.Name, "day", p.Day)
	writeJSON(w, http.StatusOK, viewOf(s.player))
}

type stockView struct {
	Ticker   string  `json:"ticker"`
	Name     string  `json:"name"`
	RefPrice float64 `json:"ref_price"`
	Price    float64 `json:"price"`
	Held     float64 `json:"held"`
}

func (s *Server) handleStocksList(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := 1
	held := map[string]float64{}
	if s.player != nil {
		day = s.player.Day
		held = s.player.Portfolio
	}
	out := make([]stockView, 0, len(s.catalogs.Stocks))
	for _, st := range s.catalogs.Stocks {
		out = append(out, stockView{
			Ticker:   st.Ticker,
			Name:     st.Name,
			RefPrice: st.RefPrice,
			Price:    s.priceFor(st, day),
			Held:     held[st.Ticker],
		})
	}
	sortStocks(out)
	writeJSON(w, http.StatusOK, map[string]any{"stocks": out})
}

func (s *Server) handleStockDetail(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	st, err := s.catalogs.LookupStock(ticker)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	day := 1
	var held float64
	if s.player != nil {
		day = s.player.Day
		held = s.player.Portfolio[st.Ticker]
	}
	writeJSON(w, http.StatusOK, stockView{
		Ticker:   st.Ticker,
		Name:     st.Name,
		RefPrice: st.RefPrice,
		Price:    s.priceFor(st, day),
		Held:     held,
	})
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Ticker string  `json:"ticker"`
		Side   string  `json:"side"`
		Amount float64 `json:"amount"`
		Shares float64 `json:"shares"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st, err := s.catalogs.LookupStock(in.Ticker)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		s.writeDomainError(w, errNoSession)
		return
	}
	price := s.priceFor(st, s.player.Day)
	switch in.Side {
	case "buy":
		err = s.player.Buy(st.Ticker, in.Amount, price)
	case "sell":
		err = s.player.Sell(st.Ticker, in.Shares, price)
	default:
		writeError(w, http.StatusBadRequest, "side must be buy or sell")
		return
	}
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.log.Info("order filled", "ticker", st.Ticker, "side", in.Side, "price", price, "cash", s.player.Cash)
	writeJSON(w, http.StatusOK, map[string]any{
		"ticker": st.Ticker,
		"side":   in.Side,
		"price":  price,
		"cash":   s.player.Cash,
		"held":   s.player.Portfolio[st.Ticker],
	})
}

func (s *Server) handleBillsList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bills == nil {
		s.writeDomainError(w, errNoSession)
		return
	}
	var out []bills.Bill
	if r.URL.Query().Get("unpaid") == "1" {
		out = s.bills.UnpaidBills()
	} else {
		out = s.bills.AllBills()
	}
	if out == nil {
		out = []bills.Bill{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"week": s.bills.Week(), "bills": out})
}

func (s *Server) handlePayBill(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil || s.bills == nil {
		s.writeDomainError(w, errNoSession)
		return
	}
	if err := s.bills.PayBill(s.player, id); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "cash": s.player.Cash})
}

func (s *Server) handlePayAll(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil || s.bills == nil {
		s.writeDomainError(w, errNoSession)
		return
	}
	result := s.bills.PayAll(s.player)
	writeJSON(w, http.StatusOK, map[string]any{
		"paid":    len(result.Paid),
		"skipped": len(result.Skipped),
		"detail":  result,
		"cash":    s.player.Cash,
	})
}

func (s *Server) handleAdvanceDay(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil || s.bills == nil {
		s.writeDomainError(w, errNoSession)
		return
	}
	weekRolled := s.player.AdvanceDay()
	if weekRolled {
		s.bills.AdvanceWeek()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"day":         s.player.Day,
		"week":        s.player.Week(),
		"week_rolled": weekRolled,
		"player":      viewOf(s.player),
	})
}

// handleFeedLoad replaces the market feed from the request body, or from
// the configured feed path when the body is empty. A malformed feed leaves
// the current one in place.
func (s *Server) handleFeedLoad(w http.ResponseWriter, r *http.Request) {
	var (
		series *market.Series
		err    error
	)
	switch {
	case r.ContentLength != 0:
		series, err = market.ParseFeed(r.Body)
		r.Body.Close()
	case s.cfg.FeedPath != "":
		series, err = market.LoadFeedFile(s.cfg.FeedPath)
	default:
		writeError(w, http.StatusBadRequest, "feed body or configured feed path is required")
		return
	}
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.mu.Lock()
	s.series = series
	s.mu.Unlock()
	s.log.Info("market feed loaded", "days", series.Days())
	writeJSON(w, http.StatusOK, map[string]any{"days": series.Days()})
}

func (s *Server) handleMarketDay(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "day must be an integer")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.series == nil {
		writeError(w, http.StatusNotFound, "no market feed loaded")
		return
	}
	opens, err := s.series.OpensForDay(day)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	date, _ := s.series.DateForDay(day)
	writeJSON(w, http.StatusOK, map[string]any{"day": day, "date": date, "opens": opens})
}

func (s *Server) handleWork(w http.ResponseWriter, _ *http.Request) {
	s.withPlayer(w, func(p *game.Player) error {
		return p.Work(s.cfg.Wage, s.cfg.WorkEnergyCost)
	})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Zone string `json:"zone"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withPlayer(w, func(p *game.Player) error {
		return p.MoveTo(s.catalogs, in.Zone)
	})
}

func (s *Server) handleTalk(w http.ResponseWriter, r *http.Request) {
	var in struct {
		NPC string `json:"npc"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withPlayer(w, func(p *game.Player) error {
		return p.Talk(s.catalogs, in.NPC)
	})
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Key string `json:"key"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ev, err := s.catalogs.LookupEvent(in.Key)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.withPlayer(w, func(p *game.Player) error {
		return p.ApplyEvent(s.catalogs, ev)
	})
}

func (s *Server) handleConsume(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Item string `json:"item"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withPlayer(w, func(p *game.Player) error {
		return p.ConsumeItem(s.catalogs, in.Item)
	})
}

func (s *Server) handleBuyItem(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Item string `json:"item"`
		Qty  int    `json:"qty"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Qty == 0 {
		in.Qty = 1
	}
	s.withPlayer(w, func(p *game.Player) error {
		return p.BuyItem(s.catalogs, in.Item, in.Qty)
	})
}

// withPlayer runs one serialized mutation and responds with the updated
// aggregate view.
func (s *Server) withPlayer(w http.ResponseWriter, fn func(p *game.Player) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		s.writeDomainError(w, errNoSession)
		return
	}
	if err := fn(s.player); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(s.player))
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "err", err)
	}
	writeError(w, status, err.Error())
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, bills.ErrBillNotFound),
		errors.Is(err, save.ErrSlotNotFound),
		errors.Is(err, market.ErrDayOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrInsufficientFunds),
		errors.Is(err, game.ErrInsufficientShares),
		errors.Is(err, game.ErrItemNotHeld),
		errors.Is(err, game.ErrNotAdjacent),
		errors.Is(err, errNoSession):
		return http.StatusConflict
	case errors.Is(err, save.ErrSchema),
		errors.Is(err, save.ErrVersion),
		errors.Is(err, save.ErrUnresolvedReference),
		errors.Is(err, market.ErrMalformedFeedEntry),
		errors.Is(err, game.ErrUnknownStat):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func sortStocks(stocks []stockView) {
	sort.Slice(stocks, func(i, j int) bool { return stocks[i].Ticker < stocks[j].Ticker })
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid json body: %w", err)
	}
	return nil
}
