package model

import (
	"fmt"
	"strconv"
	"strings"
)

// APOD is an astronomy picture of the day.
type APOD struct {
	Copyright      string `json:"copyright,omitempty"`
	Date           string `json:"date"`
	Explanation    string `json:"explanation"`
	HDURL          string `json:"hdurl"`
	MediaType      string `json:"media_type"`
	ServiceVersion string `json:"service_version"`
	Title          string `json:"title"`
	URL            string `json:"url"`
}

func (a APOD) Key() string { return a.Date }

// Camera identifies the rover camera that took a photo.
type Camera struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	RoverID  int    `json:"rover_id"`
	FullName string `json:"full_name"`
}

// RoverInfo is the rover summary embedded in every photo.
type RoverInfo struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	LandingDate string `json:"landing_date"`
	LaunchDate  string `json:"launch_date"`
	Status      string `json:"status"`
	MaxSol      int    `json:"max_sol"`
	MaxDate     string `json:"max_date"`
	TotalPhotos int    `json:"total_photos"`
}

// RoverPhoto is one image from a Mars rover.
type RoverPhoto struct {
	ID        int       `json:"id"`
	Sol       int       `json:"sol"`
	Camera    Camera    `json:"camera"`
	ImgSrc    string    `json:"img_src"`
	EarthDate string    `json:"earth_date"`
	Rover     RoverInfo `json:"rover"`
}

func (p RoverPhoto) Key() string {
	return strings.ToLower(p.Rover.Name) + "/" + strconv.Itoa(p.ID)
}

// ManifestSol summarises the photos taken on one sol.
type ManifestSol struct {
	Sol         int      `json:"sol"`
	EarthDate   string   `json:"earth_date"`
	TotalPhotos int      `json:"total_photos"`
	Cameras     []string `json:"cameras"`
}

// RoverManifest describes a rover mission and its photo history.
type RoverManifest struct {
	Name        string        `json:"name"`
	LandingDate string        `json:"landing_date"`
	LaunchDate  string        `json:"launch_date"`
	Status      string        `json:"status"`
	MaxSol      int           `json:"max_sol"`
	MaxDate     string        `json:"max_date"`
	TotalPhotos int           `json:"total_photos"`
	Photos      []ManifestSol `json:"photos"`
}

// Key is the lowercased rover name.
func (m RoverManifest) Key() string { return strings.ToLower(m.Name) }

type DiameterRange struct {
	Min float64 `json:"estimated_diameter_min"`
	Max float64 `json:"estimated_diameter_max"`
}

type EstimatedDiameter struct {
	Kilometers DiameterRange `json:"kilometers"`
}

type CloseApproach struct {
	CloseApproachDate string `json:"close_approach_date"`
	RelativeVelocity  struct {
		KilometersPerHour string `json:"kilometers_per_hour"`
	} `json:"relative_velocity"`
	MissDistance struct {
		Kilometers string `json:"kilometers"`
	} `json:"miss_distance"`
}

// NearEarthObject is one asteroid from the NEO feed.
type NearEarthObject struct {
	ID                     string            `json:"id"`
	Name                   string            `json:"name"`
	NASAJPLURL             string            `json:"nasa_jpl_url"`
	AbsoluteMagnitudeH     float64           `json:"absolute_magnitude_h"`
	EstimatedDiameter      EstimatedDiameter `json:"estimated_diameter"`
	IsPotentiallyHazardous bool              `json:"is_potentially_hazardous_asteroid"`
	CloseApproachData      []CloseApproach   `json:"close_approach_data"`
}

func (n NearEarthObject) Key() string { return n.ID }

// EarthImage is a Landsat asset for a coordinate and date.
type EarthImage struct {
	ID         string `json:"id,omitempty"`
	Identifier string `json:"identifier,omitempty"`
	Caption    string `json:"caption,omitempty"`
	Image      string `json:"image,omitempty"`
	Version    string `json:"version,omitempty"`
	Date       string `json:"date"`
	URL        string `json:"url"`
}

func (e EarthImage) Key() string {
	if e.ID != "" {
		return e.ID
	}
	if e.Identifier != "" {
		return e.Identifier
	}
	return e.URL
}

// EarthQuery keys an imagery lookup.
type EarthQuery struct {
	Lat  float64
	Lon  float64
	Date string
}

func (q EarthQuery) String() string {
	return fmt.Sprintf("%g,%g@%s", q.Lat, q.Lon, q.Date)
}
