package descriptors

import (
	"fmt"
	"maps"
	"os"
	"reflect"
	"slices"

	"github.com/joho/godotenv"
)

// EnvOpts configures InitEnv.
type EnvOpts struct {
	// Prefix is prepended to every variable name, e.g. "APP_".
	Prefix string
	// Files are dotenv files read in order; later files override earlier
	// ones and the process environment overrides them all.
	Files []string
}

// InitStrings writes string-encoded values to the attributes of the same
// name, with the same rules as Init. Values are parsed according to each
// attribute's Go type: numbers, bools, uuid.UUID, time.Time, types
// implementing encoding.TextUnmarshaler, and comma separated slices.
func (c *Class) InitStrings(inst Owner, values map[string]string) error {
	return c.assign(inst, slices.Collect(maps.Keys(values)), func(d Descriptor) error {
		value := values[d.Name()]
		return d.decode(inst, func(ptr any) error {
			return setFieldValue(reflect.ValueOf(ptr).Elem(), value)
		})
	})
}

// InitEnv writes attributes from environment variables. The variable for an
// attribute named "maxRetries" with prefix "APP_" is "APP_MAX_RETRIES".
// Attributes without a variable are left untouched.
func (c *Class) InitEnv(inst Owner, opts EnvOpts) error {
	fileValues := map[string]string{}
	if len(opts.Files) > 0 {
		var err error
		fileValues, err = godotenv.Read(opts.Files...)
		if err != nil {
			return fmt.Errorf("error reading env files: %w", err)
		}
	}

	values := make(map[string]string)
	for _, d := range c.Attrs() {
		key := opts.Prefix + envName(d.Name())
		if v, ok := os.LookupEnv(key); ok {
			values[d.Name()] = v
		} else if v, ok := fileValues[key]; ok {
			values[d.Name()] = v
		}
	}
	return c.InitStrings(inst, values)
}
