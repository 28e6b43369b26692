package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"Cywala/models"

	"github.com/redis/go-redis/v9"
)

const doctorListKey = "doctors:list"

// DoctorCache holds the public doctor listing. A miss or a Redis failure is
// never fatal, callers fall back to the database.
type DoctorCache interface {
	GetList(ctx context.Context) ([]models.Doctor, bool)
	SetList(ctx context.Context, doctors []models.Doctor)
	Invalidate(ctx context.Context)
}

type RedisDoctorCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDoctorCache(client *redis.Client, ttl time.Duration) *RedisDoctorCache {
	return &RedisDoctorCache{client: client, ttl: ttl}
}

// NewDoctorCache uses the shared Redis connection when one is open.
func NewDoctorCache(client *redis.Client, ttl time.Duration) DoctorCache {
	if client == nil {
		log.Println("Redis not connected, doctor list is served uncached")
		return NoopDoctorCache{}
	}
	return NewRedisDoctorCache(client, ttl)
}

func (c *RedisDoctorCache) GetList(ctx context.Context) ([]models.Doctor, bool) {
	data, err := c.client.Get(ctx, doctorListKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Println("Error reading doctor cache:", err)
		}
		return nil, false
	}
	var doctors []models.Doctor
	if err := json.Unmarshal(data, &doctors); err != nil {
		log.Println("Error decoding doctor cache:", err)
		return nil, false
	}
	return doctors, true
}

func (c *RedisDoctorCache) SetList(ctx context.Context, doctors []models.Doctor) {
	data, err := json.Marshal(doctors)
	if err != nil {
		log.Println("Error encoding doctor cache:", err)
		return
	}
	if err := c.client.Set(ctx, doctorListKey, data, c.ttl).Err(); err != nil {
		log.Println("Error writing doctor cache:", err)
	}
}

func (c *RedisDoctorCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, doctorListKey).Err(); err != nil {
		log.Println("Error invalidating doctor cache:", err)
	}
}

// NoopDoctorCache always misses.
type NoopDoctorCache struct{}

func (NoopDoctorCache) GetList(context.Context) ([]models.Doctor, bool) { return nil, false }
func (NoopDoctorCache) SetList(context.Context, []models.Doctor)        {}
func (NoopDoctorCache) Invalidate(context.Context)                      {}
