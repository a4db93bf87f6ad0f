// Package server is an in-memory stand-in for the wallet backend and its
// chain node. It serves the same /v1 routes the client calls and is used by
// end-to-end tests and the devserver command.
package server

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"walletclient/app/models"
	"walletclient/pkg/log"
	"walletclient/pkg/protocol"
	"walletclient/pkg/web"
	webware "walletclient/pkg/web/middleware"
)

const (
	apiPrefix = "/v1"
	rpcPath   = "/rpc"

	maxRequestsAllowed = 10000
)

// Rest routes the backend API and, when Node is set, the node RPC.
type Rest struct {
	Router chi.Router
	Store  *Store
	Node   *Node

	sessions sessions

	mu   sync.Mutex
	hits map[string]int
}

func NewRouter() chi.Router {
	router := chi.NewRouter()

	// add middleware
	router.Use(
		middleware.Throttle(maxRequestsAllowed),
		middleware.RealIP,
		webware.ZapLogger,
		webware.Recoverer,
	)

	return router
}

func (s *Rest) Route() {
	s.Router.Use(s.countHits)

	if s.Node != nil {
		s.Router.Handle(rpcPath, s.Node)
	}

	s.Router.Route(apiPrefix, func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.login)
			r.Post("/logout", s.logout)
			r.With(s.authenticator).Get("/session", s.session)
		})

		// public routes
		r.Get("/query/wallet/{address}", s.getWallet)

		// private routes
		r.Group(func(r chi.Router) {
			r.Use(s.authenticator)

			r.Get("/query/my/wallets", s.myWallets)
			r.Get("/query/my/account", s.myAccount)

			r.Get("/transaction/history", s.transactionHistory)
			r.Get("/transaction/{hash}", s.getTransaction)
		})
	})
}

// Hits returns how many requests were made to path.
func (s *Rest) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// TotalHits returns how many requests were made to the backend API.
func (s *Rest) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for path, n := range s.hits {
		if path != rpcPath {
			total += n
		}
	}
	return total
}

func (s *Rest) countHits(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		if s.hits == nil {
			s.hits = map[string]int{}
		}
		s.hits[r.URL.Path]++
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}

func (s *Rest) login(w http.ResponseWriter, r *http.Request) {
	in := new(models.Credentials)
	if err := render.DecodeJSON(r.Body, in); err != nil {
		web.RenderError(w, r, protocol.BadRequest("malformed credentials").SetInternal(err))
		return
	}
	if err := in.Validate(); err != nil {
		web.RenderError(w, r, protocol.BadRequest("%s", err))
		return
	}

	user := s.Store.Authenticate(in)
	if user == nil {
		web.RenderError(w, r, errUnauthorized("wrong email or password"))
		return
	}
	log.AddFields(r.Context(), "user", user.Account.ID)

	http.SetCookie(w, s.sessions.open(user.Account.Email))
	web.RenderResult(w, r, s.account(user, true))
}

func (s *Rest) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, s.sessions.close(r))
	web.RenderResult(w, r, map[string]bool{"loggedOut": true})
}

func (s *Rest) session(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	web.RenderResult(w, r, map[string]string{
		"userId": user.Account.ID,
		"email":  user.Account.Email,
	})
}

func (s *Rest) getWallet(w http.ResponseWriter, r *http.Request) {
	wallet := s.Store.Wallet(chi.URLParam(r, "address"))
	if wallet == nil {
		web.RenderError(w, r, errNotFound("wallet"))
		return
	}
	web.RenderResult(w, r, wallet)
}

func (s *Rest) myWallets(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	q := r.URL.Query()

	filter := &models.WalletFilter{
		MainOnly:  queryBool(q.Get("mainWallet")),
		Addresses: q["addresses"],
		Limit:     queryInt(q.Get("limit")),
		Offset:    queryInt(q.Get("offset")),
	}
	if err := filter.Validate(nil); err != nil {
		web.RenderError(w, r, protocol.BadRequest("%s", err))
		return
	}

	wallets := s.Store.Wallets(user.Account.ID, filter)
	includeNickname, includeIds := queryBool(q.Get("includeNickname")), queryBool(q.Get("includeIds"))
	for _, wallet := range wallets {
		if !includeNickname {
			wallet.Nickname = ""
		}
		if !includeIds {
			wallet.ID, wallet.UserID = "", ""
		}
	}

	web.RenderResult(w, r, &models.WalletList{Wallets: &wallets})
}

func (s *Rest) myAccount(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	web.RenderResult(w, r, s.account(user, queryBool(r.URL.Query().Get("includeWalletAccount"))))
}

func (s *Rest) transactionHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	after, _ := strconv.ParseUint(q.Get("after"), 10, 64)

	filter := &models.TransactionHistoryFilter{
		Address: q.Get("address"),
		After:   after,
		Limit:   queryInt(q.Get("limit")),
		Offset:  queryInt(q.Get("offset")),
	}
	if err := filter.Validate(nil); err != nil {
		web.RenderError(w, r, protocol.BadRequest("%s", err))
		return
	}

	web.RenderResult(w, r, s.Store.Transactions(filter))
}

func (s *Rest) getTransaction(w http.ResponseWriter, r *http.Request) {
	tx := s.Store.Transaction(chi.URLParam(r, "hash"))
	if tx == nil {
		web.RenderError(w, r, errNotFound("transaction"))
		return
	}
	web.RenderResult(w, r, tx)
}

func (s *Rest) account(user *User, includeWallet bool) *models.Account {
	account := user.Account
	account.WalletAccount = nil
	if includeWallet {
		account.WalletAccount = s.Store.MainWallet(account.ID)
	}
	return &account
}

func errNotFound(what string) *protocol.Error {
	return protocol.NewError(http.StatusNotFound, "not-found", what+" not found")
}

func queryBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}

func queryInt(v string) int {
	i, _ := strconv.Atoi(v)
	return i
}
