package main

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TransferDaily/internal/domain"
)

// translationDelay is how long a mock translation job stays pending.
const translationDelay = 3 * time.Second

type translationJob struct {
	id      string
	locales []domain.Locale
	started time.Time
}

type store struct {
	mu          sync.Mutex
	articles    map[string]*domain.Article
	jobs        map[string]*translationJob
	clubs       map[string]domain.Club
	leagues     map[string]domain.League
	players     map[string]domain.Player
	subscribers map[string]domain.NewsletterSubscriber
	contacts    map[string]domain.ContactSubmission
}

func newStore() *store {
	return &store{
		articles:    make(map[string]*domain.Article),
		jobs:        make(map[string]*translationJob),
		clubs:       make(map[string]domain.Club),
		leagues:     make(map[string]domain.League),
		players:     make(map[string]domain.Player),
		subscribers: make(map[string]domain.NewsletterSubscriber),
		contacts:    make(map[string]domain.ContactSubmission),
	}
}

func (s *store) seed(now time.Time) {
	for _, l := range []domain.League{
		{ID: "l1", Name: "Premier League", Slug: "premier-league", Country: "England"},
		{ID: "l2", Name: "LaLiga", Slug: "laliga", Country: "Spain"},
		{ID: "l3", Name: "Serie A", Slug: "serie-a", Country: "Italy"},
	} {
		s.leagues[l.ID] = l
	}
	s.clubs["c1"] = domain.Club{ID: "c1", Name: "Arsenal", Country: "England", League: "premier-league"}
	s.clubs["c2"] = domain.Club{ID: "c2", Name: "Real Sociedad", Country: "Spain", League: "laliga"}
	s.players["p1"] = domain.Player{ID: "p1", Name: "Declan Rice", Country: "England", Position: "Midfielder", Club: "Arsenal"}

	published := now.Add(-2 * time.Hour)
	s.articles["a1"] = &domain.Article{
		ID:             "a1",
		UUID:           uuid.NewString(),
		Title:          "Arsenal complete Rice signing",
		Content:        "Arsenal have **completed** the signing of Declan Rice.\n\nThe midfielder joins on a long-term deal.",
		Slug:           "arsenal-complete-rice-signing",
		League:         "premier-league",
		PlayerName:     "Declan Rice",
		FromClub:       "West Ham",
		ToClub:         "Arsenal",
		TransferFee:    "£105m",
		TransferStatus: string(domain.TransferCompleted),
		Status:         domain.StatusPublished,
		CreatedAt:      published.Add(-time.Hour),
		UpdatedAt:      published,
		PublishedAt:    &published,
		Translations: map[domain.Locale]domain.Translation{
			domain.LocaleES: {
				Title:   "El Arsenal completa el fichaje de Rice",
				Content: "El Arsenal ha **completado** el fichaje de Declan Rice.",
				Slug:    "el-arsenal-completa-el-fichaje-de-rice",
			},
		},
	}
	s.articles["a2"] = &domain.Article{
		ID:             "a2",
		UUID:           uuid.NewString(),
		Title:          "Real Sociedad eye Serie A striker",
		Content:        "Real Sociedad are monitoring a striker in Serie A.",
		Slug:           "real-sociedad-eye-serie-a-striker",
		League:         "laliga",
		ToClub:         "Real Sociedad",
		TransferStatus: string(domain.TransferRumor),
		Status:         domain.StatusDraft,
		CreatedAt:      now.Add(-30 * time.Minute),
		UpdatedAt:      now.Add(-30 * time.Minute),
	}
}

func matchesSearch(a *domain.Article, term string) bool {
	term = strings.ToLower(term)
	for _, field := range []string{a.Title, a.PlayerName, a.FromClub, a.ToClub} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func (s *store) sortedArticles() []*domain.Article {
	out := make([]*domain.Article, 0, len(s.articles))
	for _, a := range s.articles {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

func (s *store) listArticles(q domain.ListQuery) domain.ArticleList {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []domain.Article
	for _, a := range s.sortedArticles() {
		if q.Status != "" && string(a.Status) != q.Status {
			continue
		}
		if q.League != "" && a.League != q.League {
			continue
		}
		if q.Search != "" && !matchesSearch(a, q.Search) {
			continue
		}
		rows = append(rows, *a)
	}

	page := domain.NewPage(q.Page, q.Limit, len(rows))
	start := (page.Page - 1) * page.Limit
	if start > len(rows) {
		start = len(rows)
	}
	end := min(start+page.Limit, len(rows))
	return domain.ArticleList{Articles: rows[start:end], Page: page}
}

// articleBySlug matches the base slug or any translated slug.
func (s *store) articleBySlug(slug string) (domain.Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.articles {
		if a.Slug == slug {
			return *a, true
		}
		for _, tr := range a.Translations {
			if tr.Slug == slug {
				return *a, true
			}
		}
	}
	return domain.Article{}, false
}

func (s *store) related(to domain.Article, limit int) []domain.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Article
	for _, a := range s.sortedArticles() {
		if len(out) == limit {
			break
		}
		if a.ID == to.ID || !a.IsPublished() {
			continue
		}
		if a.League == to.League || a.ToClub == to.ToClub {
			out = append(out, *a)
		}
	}
	return out
}

func (s *store) article(id string) (domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return domain.Article{}, domain.ErrNotFound
	}
	return *a, nil
}

func (s *store) createArticle(in domain.Article, now time.Time) domain.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	in.ID = uuid.NewString()[:8]
	in.UUID = uuid.NewString()
	if in.Slug == "" {
		in.Slug = domain.Slugify(in.Title)
	}
	if in.Status == "" {
		in.Status = domain.StatusDraft
	}
	in.CreatedAt = now
	in.UpdatedAt = now
	s.articles[in.ID] = &in
	return in
}

func (s *store) updateArticle(in domain.Article, now time.Time) (domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.articles[in.ID]
	if !ok {
		return domain.Article{}, domain.ErrNotFound
	}
	in.UUID = cur.UUID
	in.CreatedAt = cur.CreatedAt
	in.UpdatedAt = now
	stampPublished(&in, now)
	s.articles[in.ID] = &in
	return in, nil
}

func (s *store) setArticleStatus(id string, status domain.ArticleStatus, now time.Time) (domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return domain.Article{}, domain.ErrNotFound
	}
	if status != domain.StatusDraft && status != domain.StatusPublished {
		return domain.Article{}, fmt.Errorf("unknown status %q", status)
	}
	a.Status = status
	a.UpdatedAt = now
	stampPublished(a, now)
	return *a, nil
}

func stampPublished(a *domain.Article, now time.Time) {
	if a.IsPublished() && a.PublishedAt == nil {
		a.PublishedAt = &now
	}
}

func (s *store) deleteArticle(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.articles, id)
	delete(s.jobs, id)
	return nil
}

func (s *store) startTranslation(id string, locales []domain.Locale, now time.Time) (domain.TranslationStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[id]; !ok {
		return domain.TranslationStatus{}, domain.ErrNotFound
	}
	job := &translationJob{id: uuid.NewString(), locales: locales, started: now}
	s.jobs[id] = job
	return domain.TranslationStatus{JobID: job.id}, nil
}

// translationStatus completes the job once translationDelay has passed,
// writing a prefixed copy of the base text into every requested locale.
func (s *store) translationStatus(id string, now time.Time) (domain.TranslationStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return domain.TranslationStatus{}, domain.ErrNotFound
	}
	job, ok := s.jobs[id]
	if !ok {
		return domain.TranslationStatus{IsComplete: true}, nil
	}
	if now.Sub(job.started) < translationDelay {
		return domain.TranslationStatus{JobID: job.id}, nil
	}

	if a.Translations == nil {
		a.Translations = make(map[domain.Locale]domain.Translation)
	}
	for _, loc := range job.locales {
		title := fmt.Sprintf("[%s] %s", strings.ToUpper(string(loc)), a.Title)
		a.Translations[loc] = domain.Translation{
			Title:           title,
			Content:         a.Content,
			Slug:            domain.Slugify(title),
			MetaDescription: a.MetaDescription,
		}
	}
	a.UpdatedAt = now
	delete(s.jobs, id)
	return domain.TranslationStatus{JobID: job.id, IsComplete: true, Completed: job.locales}, nil
}

func (s *store) leagueList() []domain.League {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.League, 0, len(s.leagues))
	for _, l := range s.leagues {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *store) catalogList(kind string) any {
	switch kind {
	case "leagues":
		return s.leagueList()
	case "clubs":
		s.mu.Lock()
		defer s.mu.Unlock()
		out := make([]domain.Club, 0, len(s.clubs))
		for _, c := range s.clubs {
			out = append(out, c)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return out
	default:
		s.mu.Lock()
		defer s.mu.Unlock()
		out := make([]domain.Player, 0, len(s.players))
		for _, p := range s.players {
			out = append(out, p)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return out
	}
}

func newID(id string) string {
	if id == "" {
		return uuid.NewString()[:8]
	}
	return id
}

func (s *store) saveClub(c domain.Club) (domain.Club, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clubs[c.ID]; c.ID != "" && !ok {
		return c, domain.ErrNotFound
	}
	c.ID = newID(c.ID)
	s.clubs[c.ID] = c
	return c, nil
}

func (s *store) saveLeague(l domain.League) (domain.League, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.leagues[l.ID]; l.ID != "" && !ok {
		return l, domain.ErrNotFound
	}
	l.ID = newID(l.ID)
	if l.Slug == "" {
		l.Slug = domain.Slugify(l.Name)
	}
	s.leagues[l.ID] = l
	return l, nil
}

func (s *store) savePlayer(p domain.Player) (domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[p.ID]; p.ID != "" && !ok {
		return p, domain.ErrNotFound
	}
	p.ID = newID(p.ID)
	s.players[p.ID] = p
	return p, nil
}

func (s *store) deleteCatalog(kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found bool
	switch kind {
	case "clubs":
		_, found = s.clubs[id]
		delete(s.clubs, id)
	case "leagues":
		_, found = s.leagues[id]
		delete(s.leagues, id)
	case "players":
		_, found = s.players[id]
		delete(s.players, id)
	}
	if !found {
		return domain.ErrNotFound
	}
	return nil
}

func (s *store) subscribe(email string, loc domain.Locale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sub := range s.subscribers {
		if strings.EqualFold(sub.Email, email) {
			sub.Status = domain.SubscriberActive
			s.subscribers[id] = sub
			return
		}
	}
	id := uuid.NewString()[:8]
	s.subscribers[id] = domain.NewsletterSubscriber{
		ID:           id,
		Email:        email,
		Status:       domain.SubscriberActive,
		Locale:       loc,
		SubscribedAt: time.Now(),
	}
}

func paginate[T any](rows []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(rows) {
		return nil
	}
	return rows[start:min(start+limit, len(rows))]
}

func (s *store) subscriberList(page, limit int) []domain.NewsletterSubscriber {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.NewsletterSubscriber, 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubscribedAt.After(out[j].SubscribedAt) })
	return paginate(out, page, limit)
}

func (s *store) setSubscriberStatus(id string, status domain.SubscriberStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subscribers[id]
	if !ok {
		return domain.ErrNotFound
	}
	sub.Status = status
	s.subscribers[id] = sub
	return nil
}

func (s *store) deleteSubscriber(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscribers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.subscribers, id)
	return nil
}

func (s *store) addContact(sub domain.ContactSubmission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub.ID = uuid.NewString()[:8]
	sub.Status = domain.ContactNew
	sub.CreatedAt = time.Now()
	s.contacts[sub.ID] = sub
}

func (s *store) contactList(page, limit int) []domain.ContactSubmission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ContactSubmission, 0, len(s.contacts))
	for _, c := range s.contacts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, page, limit)
}

func (s *store) setContactStatus(id string, status domain.ContactStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Status = status
	s.contacts[id] = c
	return nil
}

func (s *store) deleteContact(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contacts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.contacts, id)
	return nil
}

func (s *store) stats() domain.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := domain.Stats{
		TotalArticles:    len(s.articles),
		TotalClubs:       len(s.clubs),
		TotalLeagues:     len(s.leagues),
		TotalPlayers:     len(s.players),
		ArticlesByLeague: make(map[string]int),
	}
	for _, a := range s.articles {
		if a.IsPublished() {
			st.PublishedArticles++
		} else {
			st.DraftArticles++
		}
		if a.League != "" {
			st.ArticlesByLeague[a.League]++
		}
	}
	for _, sub := range s.subscribers {
		if sub.Status == domain.SubscriberActive {
			st.Subscribers++
		}
	}
	for _, c := range s.contacts {
		if c.Status == domain.ContactNew {
			st.UnreadContacts++
		}
	}
	return st
}
