package fakeapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"stellar-client-go/internal/domain/model"
)

// SeedAPOD adds pictures keyed by their date.
func (s *Server) SeedAPOD(pictures ...model.APOD) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range pictures {
		s.apods[p.Date] = p
	}
}

// SeedNEO sets the objects reported for one date.
func (s *Server) SeedNEO(date string, objects ...model.NearEarthObject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.neo[date] = objects
}

func (s *Server) SeedManifest(m model.RoverManifest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifests[strings.ToLower(m.Name)] = m
}

func (s *Server) SeedPhotos(rover string, photos ...model.RoverPhoto) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos[strings.ToLower(rover)] = append(s.photos[strings.ToLower(rover)], photos...)
}

// SeedEarth registers the asset returned for a coordinate and date.
func (s *Server) SeedEarth(q model.EarthQuery, img model.EarthImage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.earth[q.String()] = img
}

func (s *Server) apod(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if start := c.Query("start_date"); start != "" {
		end := c.Query("end_date")
		out := []model.APOD{}
		for _, d := range sortedKeys(s.apods) {
			if d >= start && (end == "" || d <= end) {
				out = append(out, s.apods[d])
			}
		}
		c.JSON(http.StatusOK, out)
		return
	}

	date := c.Query("date")
	if date == "" {
		keys := sortedKeys(s.apods)
		if len(keys) == 0 {
			notFound(c, "picture")
			return
		}
		date = keys[len(keys)-1]
	}
	p, ok := s.apods[date]
	if !ok {
		notFound(c, "picture for "+date)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) roverPhotos(c *gin.Context) {
	sol, err := strconv.Atoi(c.Query("sol"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "sol must be an integer")
		return
	}
	camera := strings.ToUpper(c.Query("camera"))

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.RoverPhoto{}
	for _, p := range s.photos[strings.ToLower(c.Param("rover"))] {
		if p.Sol != sol {
			continue
		}
		if camera != "" && p.Camera.Name != camera {
			continue
		}
		out = append(out, p)
	}
	c.JSON(http.StatusOK, gin.H{"photos": out})
}

func (s *Server) manifest(c *gin.Context) {
	s.mu.Lock()
	m, ok := s.manifests[strings.ToLower(c.Param("rover"))]
	s.mu.Unlock()
	if !ok {
		notFound(c, "rover")
		return
	}
	c.JSON(http.StatusOK, gin.H{"photo_manifest": m})
}

func (s *Server) neoFeed(c *gin.Context) {
	start, end := c.Query("start_date"), c.Query("end_date")
	s.mu.Lock()
	defer s.mu.Unlock()
	grouped := map[string][]model.NearEarthObject{}
	count := 0
	for _, d := range sortedKeys(s.neo) {
		if d >= start && (end == "" || d <= end) {
			grouped[d] = s.neo[d]
			count += len(s.neo[d])
		}
	}
	c.JSON(http.StatusOK, gin.H{"element_count": count, "near_earth_objects": grouped})
}

func (s *Server) earthAssets(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		respondError(c, http.StatusBadRequest, "lat and lon are required")
		return
	}
	q := model.EarthQuery{Lat: lat, Lon: lon, Date: c.Query("date")}
	s.mu.Lock()
	img, ok := s.earth[q.String()]
	s.mu.Unlock()
	if !ok {
		notFound(c, "imagery")
		return
	}
	c.JSON(http.StatusOK, img)
}
