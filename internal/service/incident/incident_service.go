package incident

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"respondnav/internal/model"
	pg "respondnav/internal/postgres"
	redis_client "respondnav/internal/redis"
	"respondnav/internal/service/storage"
	"respondnav/internal/util"

	"gorm.io/gorm"
)

const IncidentRedisKey = "incident"

// ErrNotFound is returned when an incident does not exist.
var ErrNotFound = errors.New("incident not found")

// IncidentService keeps the incidents coming from dispatch in memory, loaded
// from PostgreSQL and merged with fresher Redis copies, with write-behind
// persistence to both. A spatial index answers nearby queries for the map
// surface.
type IncidentService struct {
	storage     storage.Storage[string, *model.Incident]
	spatial     *spatialIndex
	initialized bool
	initMutex   sync.RWMutex
}

var (
	incidentServiceInstance *IncidentService
	incidentServiceOnce     sync.Once
)

// GetIncidentService returns the singleton instance of IncidentService.
func GetIncidentService() *IncidentService {
	incidentServiceOnce.Do(func() {
		incidentServiceInstance = &IncidentService{
			storage: storage.NewMemoryStorage[string, *model.Incident](),
			spatial: newSpatialIndex(),
		}
	})
	return incidentServiceInstance
}

// InitService initializes the service by loading data from PostgreSQL and Redis
func (s *IncidentService) InitService(ctx context.Context) error {
	s.initMutex.Lock()
	defer s.initMutex.Unlock()

	if s.initialized {
		return nil
	}

	log.Println("Initializing IncidentService...")
	startTime := time.Now()

	pgIncidents, err := s.loadAllFromPG()
	if err != nil {
		return fmt.Errorf("failed to load incidents from PostgreSQL: %w", err)
	}
	log.Printf("Loaded %d incidents from PostgreSQL in %v", len(pgIncidents), time.Since(startTime))

	redisIncidents, err := s.loadAllFromRedis(ctx)
	if err != nil {
		return fmt.Errorf("failed to load incidents from Redis: %w", err)
	}
	log.Printf("Loaded %d incident updates from Redis", len(redisIncidents))

	// Redis updates override PostgreSQL data where newer
	merged := s.mergeIntoMemory(pgIncidents, redisIncidents)
	log.Printf("Merged %d newer incidents from Redis", merged)

	s.storage.ForEach(func(id string, inc *model.Incident) bool {
		s.spatial.upsert(inc)
		return true
	})

	log.Printf("Initialization complete: %d incidents in memory, took %v",
		s.storage.Count(), time.Since(startTime))

	s.initialized = true
	return nil
}

// loadAllFromPG loads all incidents from PostgreSQL
func (s *IncidentService) loadAllFromPG() ([]*model.Incident, error) {
	db := pg.GetDB()
	if db == nil {
		return nil, nil
	}

	var pgIncidents []*model.IncidentPG
	result := db.Find(&pgIncidents)
	if result.Error != nil {
		return nil, result.Error
	}

	incidents := make([]*model.Incident, len(pgIncidents))
	for i, p := range pgIncidents {
		incidents[i] = model.IncidentFromPG(p)
	}
	return incidents, nil
}

// loadAllFromRedis loads all incident updates from Redis
func (s *IncidentService) loadAllFromRedis(ctx context.Context) (map[string]*model.Incident, error) {
	client := redis_client.GetClient()
	if client == nil {
		return nil, nil
	}

	var cursor uint64
	var keys []string
	pattern := fmt.Sprintf("%s:*", IncidentRedisKey)

	// Collect all incident keys
	for {
		batch, nextCursor, err := client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	if len(keys) == 0 {
		return map[string]*model.Incident{}, nil
	}

	jsonData, err := client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	incidents := make(map[string]*model.Incident)
	for _, data := range jsonData {
		jsonStr, ok := data.(string)
		if !ok || jsonStr == "" {
			continue
		}

		redisIncident := &model.IncidentRedis{}
		if err := json.Unmarshal([]byte(jsonStr), redisIncident); err != nil {
			continue
		}

		incidents[redisIncident.ID] = model.IncidentFromRedis(redisIncident)
	}

	return incidents, nil
}

// mergeIntoMemory merges incidents from PostgreSQL and Redis into memory storage
func (s *IncidentService) mergeIntoMemory(pgIncidents []*model.Incident, redisIncidents map[string]*model.Incident) int {
	for _, inc := range pgIncidents {
		s.storage.Set(inc.ID, inc)
	}

	mergedCount := 0
	for id, redisInc := range redisIncidents {
		existing, exists := s.storage.Get(id)
		if !exists || redisInc.UpdatedAt.After(existing.UpdatedAt) {
			if exists {
				// Preserve fields that are not stored in Redis
				redisInc.Address = existing.Address
				redisInc.CreatedAt = existing.CreatedAt
				redisInc.DeletedAt = existing.DeletedAt
			}
			s.storage.Set(id, redisInc)
			mergedCount++
		}
	}

	// Loading is not a local mutation, nothing to persist back
	s.storage.ClearDirty(keysOf(s.storage.GetAll()))

	return mergedCount
}

// Create registers a new incident and indexes it.
func (s *IncidentService) Create(name string, severity model.Severity, lat, lng float64, address string) (*model.Incident, error) {
	id, err := util.GenerateUniqueID(8)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	inc := &model.Incident{
		ID:        id,
		Name:      name,
		Severity:  severity,
		Lat:       lat,
		Lng:       lng,
		Address:   address,
		State:     model.IncidentStateActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.storage.Set(id, inc)
	s.spatial.upsert(inc)
	return inc, nil
}

// Get returns an incident by ID.
func (s *IncidentService) Get(id string) (*model.Incident, error) {
	inc, ok := s.storage.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return inc, nil
}

// List returns all incidents.
func (s *IncidentService) List() []*model.Incident {
	return s.storage.GetAllValues()
}

// Resolve marks an incident resolved.
func (s *IncidentService) Resolve(id string) (*model.Incident, error) {
	inc, ok := s.storage.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	inc.State = model.IncidentStateResolved
	inc.UpdatedAt = time.Now()
	s.storage.Set(id, inc)
	return inc, nil
}

// Nearby returns active incidents within radiusMeters of the given point,
// closest first.
func (s *IncidentService) Nearby(lat, lng, radiusMeters float64) []*model.Incident {
	return s.spatial.nearby(lat, lng, radiusMeters)
}

// StartPersistenceWorkers starts workers for persisting data to Redis and PostgreSQL
func (s *IncidentService) StartPersistenceWorkers(redisInterval, pgInterval time.Duration) {
	if redis_client.Available() {
		redisTimer := time.NewTicker(redisInterval)
		go func() {
			for range redisTimer.C {
				if err := s.SaveDirtyToRedis(); err != nil {
					log.Printf("Error saving incidents to Redis: %v", err)
				}
			}
		}()
	}

	if pg.GetDB() != nil {
		pgTimer := time.NewTicker(pgInterval)
		go func() {
			for range pgTimer.C {
				if err := s.SaveAllToPG(); err != nil {
					log.Printf("Error saving incidents to PostgreSQL: %v", err)
				}
			}
		}()
	}
}

// SaveDirtyToRedis saves modified incidents to Redis
func (s *IncidentService) SaveDirtyToRedis() error {
	dirty := s.storage.GetDirty()
	if len(dirty) == 0 {
		return nil
	}

	client := redis_client.GetClient()
	if client == nil {
		return nil
	}

	ctx := context.Background()
	pipe := client.Pipeline()

	// Collect keys to clear flags after successful save
	keys := make([]string, 0, len(dirty))

	for id, inc := range dirty {
		incKey := fmt.Sprintf("%s:%s", IncidentRedisKey, id)
		payload, err := json.Marshal(inc.ToRedis())
		if err != nil {
			return err
		}
		pipe.Set(ctx, incKey, payload, 0)
		keys = append(keys, id)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	// Clear flags only after successful save
	s.storage.ClearDirty(keys)

	log.Printf("Saved %d incidents to Redis", len(dirty))
	return nil
}

// SaveAllToPG saves all incidents to PostgreSQL in batches
func (s *IncidentService) SaveAllToPG() error {
	all := s.storage.GetAllValues()
	if len(all) == 0 {
		return nil
	}

	db := pg.GetDB()
	if db == nil {
		return nil
	}

	batchSize := 500
	for i := 0; i < len(all); i += batchSize {
		end := i + batchSize
		if end > len(all) {
			end = len(all)
		}

		batch := all[i:end]
		err := db.Transaction(func(tx *gorm.DB) error {
			for _, inc := range batch {
				if result := tx.Save(inc.ToPG()); result.Error != nil {
					return result.Error
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func keysOf(m map[string]*model.Incident) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
