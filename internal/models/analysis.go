package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number decodes JSON numbers, numeric strings and anything else (as zero)
// so one sloppy field in a model response cannot reject the whole analysis.
type Number float64

func (number *Number) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*number = 0
		return nil
	}

	var raw any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}

	switch value := raw.(type) {
	case float64:
		*number = Number(finiteOrZero(value))
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(value, ",", ".")), 64)
		if err != nil {
			*number = 0
			return nil
		}
		*number = Number(finiteOrZero(parsed))
	default:
		*number = 0
	}
	return nil
}

func (number Number) Float() float64 {
	return finiteOrZero(float64(number))
}

func finiteOrZero(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

// AnalyzedFood mirrors one entry of the vision model's response schema.
type AnalyzedFood struct {
	Name          string `json:"nombre"`
	WeightGrams   Number `json:"cantidad_estimada_gramos"`
	Calories      Number `json:"calorias"`
	ProteinG      Number `json:"proteinas_g"`
	CarbohydrateG Number `json:"carbohidratos_g"`
	FatG          Number `json:"grasas_g"`
}

type MealAnalysis struct {
	Foods []AnalyzedFood `json:"alimentos"`
}
