package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ResponsiveImage is the durable output of the derivation pipeline. It is
// embedded wholesale into the owning content entity: either as columns on a
// project image row, or as a JSON object inside a body block.
type ResponsiveImage struct {
	Src    string `json:"src"`
	Srcset string `json:"srcset"`
	Sizes  string `json:"sizes"`
	Alt    string `json:"alt"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (r ResponsiveImage) Value() (driver.Value, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal ResponsiveImage: %w", err)
	}
	return b, nil
}
func (r *ResponsiveImage) Scan(src interface{}) error {
	if src == nil {
		*r = ResponsiveImage{}
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("ResponsiveImage.Scan: expected []byte, got %T", src)
	}
	if err := json.Unmarshal(data, r); err != nil {
		return fmt.Errorf("unmarshal ResponsiveImage: %w", err)
	}
	return nil
}
