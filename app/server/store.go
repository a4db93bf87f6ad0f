package server

import (
	"strings"
	"sync"

	"walletclient/app/models"
)

// User is an account known to the fake backend.
type User struct {
	Account  models.Account
	Password string
}

// Store is the in-memory data behind the fake backend. It is safe for
// concurrent use; everything it hands out is a copy.
type Store struct {
	mu           sync.RWMutex
	users        map[string]*User // by email
	wallets      []*models.Wallet
	transactions []*models.Transaction
}

func NewStore() *Store {
	return &Store{users: map[string]*User{}}
}

func (s *Store) AddUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[strings.ToLower(u.Account.Email)] = u
}

// AddWallet adds w to the wallets of user id w.UserID.
func (s *Store) AddWallet(w *models.Wallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *w
	cp.Balances = nil
	s.wallets = append(s.wallets, &cp)
}

func (s *Store) AddTransaction(tx *models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *tx
	s.transactions = append(s.transactions, &cp)
}

// Authenticate returns the user with matching credentials or nil.
func (s *Store) Authenticate(c *models.Credentials) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[strings.ToLower(c.Email)]
	if !ok || u.Password != c.Password {
		return nil
	}
	return u
}

func (s *Store) User(email string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[strings.ToLower(email)]
}

// Wallets lists the wallets of userID in insertion order.
func (s *Store) Wallets(userID string, filter *models.WalletFilter) []*models.Wallet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := map[string]bool{}
	for _, a := range filter.Addresses {
		wanted[a] = true
	}

	result := []*models.Wallet{}
	for _, w := range s.wallets {
		if w.UserID != userID {
			continue
		}
		if filter.MainOnly && !w.IsMain {
			continue
		}
		if len(wanted) > 0 && !wanted[w.Address] {
			continue
		}
		cp := *w
		result = append(result, &cp)
	}
	from, to := bounds(len(result), filter.Offset, filter.Limit)
	return result[from:to]
}

func (s *Store) MainWallet(userID string) *models.Wallet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.wallets {
		if w.UserID == userID && w.IsMain {
			cp := *w
			return &cp
		}
	}
	return nil
}

func (s *Store) Wallet(address string) *models.Wallet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.wallets {
		if w.Address == address {
			cp := *w
			return &cp
		}
	}
	return nil
}

// Transactions lists transactions touching the filter address above
// filter.After, newest first.
func (s *Store) Transactions(filter *models.TransactionHistoryFilter) *models.TransactionHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []*models.Transaction{}
	for i := len(s.transactions) - 1; i >= 0; i-- {
		tx := s.transactions[i]
		if tx.FromAddress != filter.Address && tx.ToAddress != filter.Address {
			continue
		}
		if tx.Height <= filter.After {
			continue
		}
		cp := *tx
		result = append(result, &cp)
	}
	from, to := bounds(len(result), filter.Offset, filter.Limit)
	return &models.TransactionHistory{Transactions: result[from:to], Total: len(result)}
}

func (s *Store) Transaction(hash string) *models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, tx := range s.transactions {
		if strings.EqualFold(tx.Hash, hash) {
			cp := *tx
			return &cp
		}
	}
	return nil
}

// bounds returns the slice bounds of a page of n items.
func bounds(n, offset, limit int) (int, int) {
	if offset >= n {
		return n, n
	}
	if limit <= 0 || offset+limit > n {
		return offset, n
	}
	return offset, offset + limit
}
