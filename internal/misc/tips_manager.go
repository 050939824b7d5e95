package misc

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	log "github.com/sirupsen/logrus"
)

//go:embed tips.csv
var defaultTipsCSV []byte

type Tip struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

type TipsManager struct {
	Tips           []*Tip
	CategoriesTips map[string][]*Tip
}

// NewDefaultTipsManager loads the tips bundled with the binary.
func NewDefaultTipsManager() (*TipsManager, error) {
	return NewTipsManager(csv.NewReader(bytes.NewReader(defaultTipsCSV)))
}

func NewTipsManager(tipsCsvReader *csv.Reader) (*TipsManager, error) {
	tm := &TipsManager{}
	tm.CategoriesTips = make(map[string][]*Tip)

	// TIP;CATEGORY
	tipsCsvReader.Comma = ';'
	for {
		record, err := tipsCsvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if len(record) != 2 {
			return nil, fmt.Errorf("record [%s] does not have 2 elements", record)
		}

		tip := &Tip{
			Text:     record[0],
			Category: record[1],
		}
		tm.Tips = append(tm.Tips, tip)
		tm.CategoriesTips[tip.Category] = append(tm.CategoriesTips[tip.Category], tip)
	}

	if len(tm.Tips) == 0 {
		return nil, errors.New("no tips found")
	}

	log.Debugf("tips CSV read %d tips", len(tm.Tips))
	return tm, nil
}

func (tm *TipsManager) RandomTip() *Tip {
	return tm.Tips[rand.IntN(len(tm.Tips))]
}
