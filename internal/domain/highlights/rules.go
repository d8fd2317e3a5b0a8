package highlights

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// KeywordCategory groups keywords that share a weight.
type KeywordCategory struct {
	Name   string   `yaml:"name"`
	Weight int      `yaml:"weight"`
	Words  []string `yaml:"words"`
}

// Rules configures the segment scorer. Category keywords add their weight once
// when present; emphasis words add their weight for every occurrence.
type Rules struct {
	Categories []KeywordCategory `yaml:"categories"`
	Emphasis   KeywordCategory   `yaml:"emphasis"`

	QuestionBonus    int `yaml:"question_bonus"`
	ExclamationBonus int `yaml:"exclamation_bonus"`

	ShortBelow   float64 `yaml:"short_below"`
	ShortPenalty int     `yaml:"short_penalty"`

	SweetSpotMin   float64 `yaml:"sweet_spot_min"`
	SweetSpotMax   float64 `yaml:"sweet_spot_max"`
	SweetSpotBonus int     `yaml:"sweet_spot_bonus"`
}

func DefaultRules() Rules {
	return Rules{
		Categories: []KeywordCategory{
			{
				Name:   "emotional",
				Weight: 10,
				Words: []string{
					"incrível", "surpreendente", "chocante", "louco", "insano", "cara", "mano",
					"nossa", "uau", "impressionante", "bizarro", "esquisito", "estranho",
				},
			},
			{
				Name:   "trending",
				Weight: 10,
				Words: []string{
					"ai", "inteligência artificial", "chatgpt", "openai", "tecnologia",
					"bitcoin", "crypto", "nft", "metaverso", "tiktok", "youtube",
				},
			},
			{
				Name:   "engagement",
				Weight: 10,
				Words: []string{
					"como", "porque", "será", "imagine", "vocês sabiam", "você sabia",
					"acredita", "pensa", "acha", "imagina",
				},
			},
			{
				Name:   "dramatic",
				Weight: 10,
				Words: []string{
					"nunca", "sempre", "jamais", "impossível", "inacreditável",
					"segredo", "revelação", "verdade", "mentira",
				},
			},
		},
		Emphasis: KeywordCategory{
			Name:   "emphasis",
			Weight: 8,
			Words:  []string{"cara", "mano", "nossa", "uau", "incrível"},
		},
		QuestionBonus:    15,
		ExclamationBonus: 5,
		ShortBelow:       3,
		ShortPenalty:     20,
		SweetSpotMin:     10,
		SweetSpotMax:     30,
		SweetSpotBonus:   10,
	}
}

// LoadRules reads a YAML rules file. Fields missing from the file keep their
// default values; a categories list in the file replaces the default one.
func LoadRules(path string) (Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		return Rules{}, fmt.Errorf("highlights: open rules %q: %w", path, err)
	}
	defer f.Close()

	r, err := DecodeRules(f)
	if err != nil {
		return Rules{}, fmt.Errorf("highlights: parse rules %q: %w", path, err)
	}
	return r, nil
}

func DecodeRules(r io.Reader) (Rules, error) {
	rules := DefaultRules()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil && !errors.Is(err, io.EOF) {
		return Rules{}, err
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

func (r Rules) Validate() error {
	for _, c := range r.Categories {
		if c.Weight < 0 {
			return fmt.Errorf("category %q: weight must be >= 0", c.Name)
		}
	}
	if r.Emphasis.Weight < 0 {
		return errors.New("emphasis: weight must be >= 0")
	}
	if r.SweetSpotMin > r.SweetSpotMax {
		return errors.New("sweet_spot_min must be <= sweet_spot_max")
	}
	return nil
}
