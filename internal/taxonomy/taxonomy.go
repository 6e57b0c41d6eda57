// Package taxonomy - справочник типов объектов инфраструктуры (тип -> наборы тегов)
// и таблица синонимов операторов. После загрузки справочник не изменяется.
package taxonomy

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultTable []byte

// TagPredicate - условие на один тег: ExactTag или AnyOfTag
type TagPredicate interface {
	TagKey() string
	isTagPredicate()
}

// ExactTag - тег с точным значением
type ExactTag struct {
	Key   string
	Value string
}

// AnyOfTag - тег с одним из альтернативных значений
type AnyOfTag struct {
	Key    string
	Values []string
}

func (t ExactTag) TagKey() string { return t.Key }
func (t AnyOfTag) TagKey() string { return t.Key }

func (ExactTag) isTagPredicate() {}
func (AnyOfTag) isTagPredicate() {}

// TagGroup - условия, которые должны выполняться одновременно
type TagGroup []TagPredicate

// TypeDefinition - тип объекта; группы объединяются
type TypeDefinition struct {
	Key    string     `json:"key"`
	Label  string     `json:"label"`
	Groups []TagGroup `json:"-"`
}

// OperatorAliases - каноническое имя оператора и его синонимы
type OperatorAliases struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
}

// Taxonomy - загруженный справочник
type Taxonomy struct {
	types     []TypeDefinition
	index     map[string]int
	operators []OperatorAliases
}

type document struct {
	Types []struct {
		Key    string      `yaml:"key"`
		Label  string      `yaml:"label"`
		Groups []yamlGroup `yaml:"groups"`
	} `yaml:"types"`
	Operators []struct {
		Name    string   `yaml:"name"`
		Aliases []string `yaml:"aliases"`
	} `yaml:"operators"`
}

// yamlGroup сохраняет порядок тегов из файла
type yamlGroup struct {
	predicates TagGroup
}

func (g *yamlGroup) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: tag group must be a mapping", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := node.Content[i+1]

		switch value.Kind {
		case yaml.ScalarNode:
			g.predicates = append(g.predicates, ExactTag{Key: key, Value: value.Value})
		case yaml.SequenceNode:
			var values []string
			if err := value.Decode(&values); err != nil {
				return fmt.Errorf("line %d: tag %q: %w", value.Line, key, err)
			}
			if len(values) == 0 {
				return fmt.Errorf("line %d: tag %q has no values", value.Line, key)
			}
			g.predicates = append(g.predicates, AnyOfTag{Key: key, Values: values})
		default:
			return fmt.Errorf("line %d: tag %q must be a string or a list", value.Line, key)
		}
	}

	return nil
}

var (
	defaultOnce sync.Once
	defaultTax  *Taxonomy
)

// Default возвращает встроенный справочник
func Default() *Taxonomy {
	defaultOnce.Do(func() {
		t, err := Load(bytes.NewReader(defaultTable))
		if err != nil {
			panic(fmt.Sprintf("taxonomy: embedded table is invalid: %v", err))
		}
		defaultTax = t
	})
	return defaultTax
}

// Open загружает справочник из файла, пустой путь - встроенный справочник
func Open(path string) (*Taxonomy, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open taxonomy file: %w", err)
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy %s: %w", path, err)
	}
	return t, nil
}

// Load разбирает YAML-справочник
func Load(r io.Reader) (*Taxonomy, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode taxonomy: %w", err)
	}

	if len(doc.Types) == 0 {
		return nil, errors.New("taxonomy has no types")
	}

	t := &Taxonomy{
		types: make([]TypeDefinition, 0, len(doc.Types)),
		index: make(map[string]int, len(doc.Types)),
	}

	for _, dt := range doc.Types {
		key := strings.ToLower(strings.TrimSpace(dt.Key))
		if key == "" {
			return nil, errors.New("taxonomy type without key")
		}
		if _, dup := t.index[key]; dup {
			return nil, fmt.Errorf("duplicate taxonomy type %q", key)
		}
		if len(dt.Groups) == 0 {
			return nil, fmt.Errorf("taxonomy type %q has no tag groups", key)
		}

		def := TypeDefinition{Key: key, Label: dt.Label}
		for _, g := range dt.Groups {
			if len(g.predicates) == 0 {
				return nil, fmt.Errorf("taxonomy type %q has an empty tag group", key)
			}
			def.Groups = append(def.Groups, g.predicates)
		}

		t.index[key] = len(t.types)
		t.types = append(t.types, def)
	}

	for _, op := range doc.Operators {
		name := strings.ToLower(strings.TrimSpace(op.Name))
		if name == "" {
			return nil, errors.New("operator without name")
		}

		aliases := make([]string, 0, len(op.Aliases))
		for _, a := range op.Aliases {
			if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
				aliases = append(aliases, a)
			}
		}
		t.operators = append(t.operators, OperatorAliases{Name: name, Aliases: aliases})
	}

	return t, nil
}

// Lookup возвращает определение типа по ключу
func (t *Taxonomy) Lookup(key string) (TypeDefinition, bool) {
	i, ok := t.index[key]
	if !ok {
		return TypeDefinition{}, false
	}
	return t.types[i], true
}

// Has - есть ли тип в справочнике
func (t *Taxonomy) Has(key string) bool {
	_, ok := t.index[key]
	return ok
}

// Types возвращает типы в порядке объявления
func (t *Taxonomy) Types() []TypeDefinition {
	out := make([]TypeDefinition, len(t.types))
	copy(out, t.types)
	return out
}

// Operators возвращает таблицу операторов в порядке сопоставления
func (t *Taxonomy) Operators() []OperatorAliases {
	out := make([]OperatorAliases, len(t.operators))
	copy(out, t.operators)
	return out
}
