package services

import (
	"errors"
	"testing"
)

func TestServiceDefinitionValidate(t *testing.T) {
	valid := testService()

	tests := []struct {
		name    string
		mutate  func(*ServiceDefinition)
		wantErr bool
	}{
		{"valid definition", func(d *ServiceDefinition) {}, false},
		{"empty id", func(d *ServiceDefinition) { d.ID = "" }, true},
		{"negative price min", func(d *ServiceDefinition) { d.PriceMin = -1 }, true},
		{"inverted price range", func(d *ServiceDefinition) { d.PriceMin = 12000; d.PriceMax = 4000 }, true},
		{"equal price bounds allowed", func(d *ServiceDefinition) { d.PriceMin = 5000; d.PriceMax = 5000 }, false},
		{"unnamed factor", func(d *ServiceDefinition) { d.Factors[0].Name = "" }, true},
		{"degenerate factor bounds", func(d *ServiceDefinition) { d.Factors[0].ImpactMin = 5; d.Factors[0].ImpactMax = 5 }, true},
		{"inverted factor bounds", func(d *ServiceDefinition) { d.Factors[0].ImpactMin = 10; d.Factors[0].ImpactMax = 2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := valid
			def.Factors = append([]VariationFactor(nil), valid.Factors...)
			tt.mutate(&def)

			err := def.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewCatalog(t *testing.T) {
	t.Run("valid services", func(t *testing.T) {
		c, err := NewCatalog([]ServiceDefinition{testService(), testServiceNoMaintenance()})
		if err != nil {
			t.Fatalf("NewCatalog() error = %v", err)
		}
		if c.Len() != 2 {
			t.Errorf("Len() = %d, want 2", c.Len())
		}
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		_, err := NewCatalog([]ServiceDefinition{testService(), testService()})
		if err == nil {
			t.Fatal("NewCatalog() with duplicate ids succeeded, want error")
		}
	})

	t.Run("invalid definition rejected", func(t *testing.T) {
		bad := testService()
		bad.ID = ""
		_, err := NewCatalog([]ServiceDefinition{bad})
		if err == nil {
			t.Fatal("NewCatalog() with invalid definition succeeded, want error")
		}
	})
}

func TestCatalogLookup(t *testing.T) {
	c := testCatalog()

	def, err := c.Lookup("webapp")
	if err != nil {
		t.Fatalf("Lookup(webapp) error = %v", err)
	}
	if def.Name != "Business web application" {
		t.Errorf("Lookup(webapp).Name = %q", def.Name)
	}

	_, err = c.Lookup("nonexistent")
	if !errors.Is(err, ErrUnknownService) {
		t.Errorf("Lookup(nonexistent) error = %v, want ErrUnknownService", err)
	}
}

func TestCatalogServicesOrder(t *testing.T) {
	c := testCatalog()

	services := c.Services()
	if len(services) != 2 {
		t.Fatalf("Services() returned %d entries, want 2", len(services))
	}
	if services[0].ID != "webapp" || services[1].ID != "audit" {
		t.Errorf("Services() order = [%s, %s], want load order [webapp, audit]",
			services[0].ID, services[1].ID)
	}
}
