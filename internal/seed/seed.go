// Package seed наполняет пустую витрину объектами, юнитами и изображениями
// из YAML-файла. Все записи идут через сервисы, поэтому инварианты коллекций
// изображений проверяются так же, как для запросов API.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"rental_showcase/internal/domain/models"
	"rental_showcase/internal/lib/logger/sl"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type PropertyCreator interface {
	CreateProperty(ctx context.Context, property models.Property, images []models.ImageInput) (models.Property, error)
}

type UnitCreator interface {
	CreateUnit(ctx context.Context, unit models.Unit, images []models.ImageInput) (models.Unit, error)
}

type ImageAppender interface {
	Append(ctx context.Context, parent models.Parent, inputs []models.ImageInput) ([]models.MediaItem, error)
}

type File struct {
	Hero       []Image    `yaml:"hero"`
	Properties []Property `yaml:"properties"`
}

type Image struct {
	URL     string  `yaml:"url"`
	Caption *string `yaml:"caption"`
	Primary bool    `yaml:"primary"`
}

type Property struct {
	Title        string  `yaml:"title"`
	Description  string  `yaml:"description"`
	Location     string  `yaml:"location"`
	PropertyType string  `yaml:"property_type"`
	Address      *string `yaml:"address"`
	Bedrooms     *int    `yaml:"bedrooms"`
	Bathrooms    *int    `yaml:"bathrooms"`
	SquareFeet   *int    `yaml:"square_feet"`
	YoutubeURL   *string `yaml:"youtube_url"`
	Featured     bool    `yaml:"featured"`
	Images       []Image `yaml:"images"`
	Units        []Unit  `yaml:"units"`
}

type Unit struct {
	UnitNumber string  `yaml:"unit_number"`
	Bedrooms   int     `yaml:"bedrooms"`
	Bathrooms  int     `yaml:"bathrooms"`
	SquareFeet *int    `yaml:"square_feet"`
	Features   *string `yaml:"features"`
	YoutubeURL *string `yaml:"youtube_url"`
	Images     []Image `yaml:"images"`
}

// Summary - сколько записей создано
type Summary struct {
	Properties int
	Units      int
	HeroImages int
}

type Seeder struct {
	log        *slog.Logger
	properties PropertyCreator
	units      UnitCreator
	images     ImageAppender
}

func New(log *slog.Logger, properties PropertyCreator, units UnitCreator, images ImageAppender) *Seeder {
	return &Seeder{
		log:        log,
		properties: properties,
		units:      units,
		images:     images,
	}
}

func Decode(r io.Reader) (File, error) {
	const op = "seed.Decode"

	var f File

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("%s: %w", op, err)
	}

	return f, nil
}

func ReadFile(path string) (File, error) {
	const op = "seed.ReadFile"

	fh, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", op, err)
	}
	defer fh.Close()

	return Decode(fh)
}

// Apply создаёт записи по порядку и останавливается на первой ошибке.
// Уже созданные записи не откатываются.
func (s *Seeder) Apply(ctx context.Context, f File) (Summary, error) {
	const op = "seed.Apply"

	log := s.log.With(slog.String("op", op))

	var sum Summary

	if len(f.Hero) > 0 {
		items, err := s.images.Append(ctx, models.HeroParent(), toInputs(f.Hero))
		if err != nil {
			log.Error("failed to seed hero images", sl.Err(err))

			return sum, fmt.Errorf("%s: hero: %w", op, err)
		}
		sum.HeroImages = len(items)
	}

	for i, p := range f.Properties {
		created, err := s.properties.CreateProperty(ctx, p.toDomain(), toInputs(p.Images))
		if err != nil {
			log.Error("failed to seed property", slog.String("title", p.Title), sl.Err(err))

			return sum, fmt.Errorf("%s: properties[%d]: %w", op, i, err)
		}
		sum.Properties++

		for j, u := range p.Units {
			unit := u.toDomain(created.ID)
			if _, err := s.units.CreateUnit(ctx, unit, toInputs(u.Images)); err != nil {
				log.Error("failed to seed unit",
					slog.String("property_id", created.ID.String()),
					slog.String("unit_number", u.UnitNumber),
					sl.Err(err),
				)

				return sum, fmt.Errorf("%s: properties[%d].units[%d]: %w", op, i, j, err)
			}
			sum.Units++
		}
	}

	log.Info("seed applied",
		slog.Int("properties", sum.Properties),
		slog.Int("units", sum.Units),
		slog.Int("hero_images", sum.HeroImages),
	)

	return sum, nil
}

func (p Property) toDomain() models.Property {
	return models.Property{
		Title:        p.Title,
		Description:  p.Description,
		Location:     models.Location(p.Location),
		PropertyType: models.PropertyType(p.PropertyType),
		Address:      p.Address,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		SquareFeet:   p.SquareFeet,
		YoutubeURL:   p.YoutubeURL,
		Featured:     p.Featured,
	}
}

func (u Unit) toDomain(propertyID uuid.UUID) models.Unit {
	return models.Unit{
		PropertyID: propertyID,
		UnitNumber: u.UnitNumber,
		Bedrooms:   u.Bedrooms,
		Bathrooms:  u.Bathrooms,
		SquareFeet: u.SquareFeet,
		Features:   u.Features,
		YoutubeURL: u.YoutubeURL,
	}
}

func toInputs(images []Image) []models.ImageInput {
	if len(images) == 0 {
		return nil
	}

	inputs := make([]models.ImageInput, 0, len(images))
	for _, img := range images {
		inputs = append(inputs, models.ImageInput{
			URL:       img.URL,
			Caption:   img.Caption,
			IsPrimary: img.Primary,
		})
	}

	return inputs
}
