package directory

import (
	"context"
	"encoding/json"

	"github.com/example/mediride/internal/apiclient"
	"github.com/example/mediride/internal/models"
)

// Service serves the read-only hospital/doctor catalogs, caching backend
// responses. The catalogs are independent of the booking/bid flow.
type Service struct {
	Backend *apiclient.Client
	Cache   Cache
}

func (s *Service) Hospitals(ctx context.Context, search string) ([]models.Hospital, error) {
	key := "directory:hospitals:" + search
	if b, ok := s.cacheGet(ctx, key); ok {
		var out []models.Hospital
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
	}
	out, err := s.Backend.Hospitals(ctx, search)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, out)
	return out, nil
}

func (s *Service) Doctors(ctx context.Context, specialty string) ([]models.Doctor, error) {
	key := "directory:doctors:" + specialty
	if b, ok := s.cacheGet(ctx, key); ok {
		var out []models.Doctor
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
	}
	out, err := s.Backend.Doctors(ctx, specialty)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, out)
	return out, nil
}

func (s *Service) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.Cache == nil {
		return nil, false
	}
	return s.Cache.Get(ctx, key)
}

func (s *Service) cacheSet(ctx context.Context, key string, v any) {
	if s.Cache == nil {
		return
	}
	if b, err := json.Marshal(v); err == nil {
		s.Cache.Set(ctx, key, b)
	}
}
