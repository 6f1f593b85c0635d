// Package memory is an in-process store with the same methods as the MongoDB
// repository. It backs local runs without a database and the tests.
package memory

import (
	"acadeemia/entity"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Store struct {
	mu            sync.RWMutex
	schools       map[string]entity.School
	users         map[string]entity.User
	profiles      map[string]entity.UserProfile
	subscriptions map[string]entity.Subscription
	payments      map[string]entity.PaymentRecord
	events        map[string]entity.GatewayEvent
	apiKeys       map[string]string
}

func New() *Store {
	return &Store{
		schools:       make(map[string]entity.School),
		users:         make(map[string]entity.User),
		profiles:      make(map[string]entity.UserProfile),
		subscriptions: make(map[string]entity.Subscription),
		payments:      make(map[string]entity.PaymentRecord),
		events:        make(map[string]entity.GatewayEvent),
		apiKeys:       make(map[string]string),
	}
}

func (s *Store) Ping(_ context.Context) error {
	return nil
}

func (s *Store) CreateSchool(_ context.Context, school *entity.School) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schools[school.ID]; ok {
		return fmt.Errorf("school %s already exists", school.ID)
	}
	s.schools[school.ID] = *school
	return nil
}

func (s *Store) GetSchool(_ context.Context, id string) (*entity.School, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	school, ok := s.schools[id]
	if !ok {
		return nil, nil
	}
	return &school, nil
}

func (s *Store) DeleteSchool(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.schools, id)
	s.mu.Unlock()
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

func (s *Store) SaveUser(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("user %s already exists", user.ID)
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.users, id)
	s.mu.Unlock()
	return nil
}

func (s *Store) SaveProfile(_ context.Context, profile *entity.UserProfile) error {
	s.mu.Lock()
	s.profiles[profile.ID] = *profile
	s.mu.Unlock()
	return nil
}

func (s *Store) GetProfileBySchool(_ context.Context, schoolID string) (*entity.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.profiles {
		if p.SchoolID == schoolID {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (s *Store) DeleteProfile(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.profiles, id)
	s.mu.Unlock()
	return nil
}

func (s *Store) CreateSubscription(_ context.Context, sub *entity.Subscription) error {
	s.mu.Lock()
	s.subscriptions[sub.ID] = *sub
	s.mu.Unlock()
	return nil
}

func (s *Store) DeleteSubscription(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.subscriptions, id)
	s.mu.Unlock()
	return nil
}

func (s *Store) ActivateSubscription(_ context.Context, schoolID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sub := range s.subscriptions {
		if sub.SchoolID == schoolID && sub.Status == entity.SubscriptionPending {
			sub.Status = entity.SubscriptionActive
			sub.UpdatedAt = time.Now()
			s.subscriptions[id] = sub
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) GetSubscriptionBySchool(_ context.Context, schoolID string) (*entity.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.subscriptions {
		if sub.SchoolID == schoolID {
			found := sub
			return &found, nil
		}
	}
	return nil, nil
}

func (s *Store) ListSubscriptions(_ context.Context, status string) ([]entity.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subs := make([]entity.Subscription, 0, len(s.subscriptions))
	for _, sub := range s.subscriptions {
		if status == "" || sub.Status == status {
			subs = append(subs, sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].StartDate.After(subs[j].StartDate) })
	return subs, nil
}

func (s *Store) CreatePayment(_ context.Context, payment *entity.PaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[payment.ID]; ok {
		return fmt.Errorf("payment %s already exists", payment.ID)
	}
	s.payments[payment.ID] = *payment
	return nil
}

func (s *Store) withSchool(p entity.PaymentRecord) *entity.PaymentWithSchool {
	return &entity.PaymentWithSchool{
		PaymentRecord: p,
		SchoolName:    s.schools[p.SchoolID].Name,
	}
}

func (s *Store) FindPaymentByTrackingID(_ context.Context, trackingID string) (*entity.PaymentWithSchool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.payments {
		if p.TrackingID == trackingID {
			return s.withSchool(p), nil
		}
	}
	return nil, nil
}

func (s *Store) GetPayment(_ context.Context, id string) (*entity.PaymentWithSchool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, nil
	}
	return s.withSchool(p), nil
}

func (s *Store) UpdatePaymentStatus(_ context.Context, trackingID, status, confirmationCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.payments {
		if p.TrackingID == trackingID {
			p.Status = status
			p.ConfirmationCode = confirmationCode
			p.UpdatedAt = time.Now()
			s.payments[id] = p
			return nil
		}
	}
	return fmt.Errorf("payment with tracking id %s not found", trackingID)
}

func (s *Store) ListPayments(_ context.Context, status string, limit int64) ([]entity.PaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payments := make([]entity.PaymentRecord, 0, len(s.payments))
	for _, p := range s.payments {
		if status == "" || p.Status == status {
			payments = append(payments, p)
		}
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].CreatedAt.After(payments[j].CreatedAt) })
	if limit > 0 && int64(len(payments)) > limit {
		payments = payments[:limit]
	}
	return payments, nil
}

func (s *Store) SaveGatewayEvent(_ context.Context, event *entity.GatewayEvent) error {
	s.mu.Lock()
	s.events[event.ID] = *event
	s.mu.Unlock()
	return nil
}

func (s *Store) ListGatewayEvents(_ context.Context, trackingID string) ([]entity.GatewayEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]entity.GatewayEvent, 0)
	for _, e := range s.events {
		if e.TrackingID == trackingID {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ReceivedAt.Before(events[j].ReceivedAt) })
	return events, nil
}

func (s *Store) CheckApiKey(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for username, k := range s.apiKeys {
		if k == key {
			return username, nil
		}
	}
	return "", fmt.Errorf("api key not found")
}

func (s *Store) GenerateApiKey(username string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k, ok := s.apiKeys[username]; ok {
		return k, nil
	}
	key := uuid.NewString()
	s.apiKeys[username] = key
	return key, nil
}
