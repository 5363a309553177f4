package manager

import (
	"sync"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"video-pipeline-service/pkg/config"
	"video-pipeline-service/pkg/logger"
)

// Resource is an external connection with an explicit lifecycle (object
// store, database, broker). MustOpen panics on failure: the service does
// not boot with a half-initialized resource set.
type Resource interface {
	MustOpen()
	Close()
}

// ResourcePlugin lazily constructs a named resource.
type ResourcePlugin interface {
	Name() string
	MustCreateResource() Resource
}

// Component is a unit of background behaviour assembled after resources.
type Component interface {
	Start() error
	Stop() error
	GetName() string
}

// ComponentPlugin constructs a component from shared dependencies.
type ComponentPlugin interface {
	Name() string
	MustCreateComponent(deps *Dependencies) Component
}

// Controller registers HTTP routes.
type Controller interface {
	RegisterRoutes(engine *gin.Engine)
}

// ControllerPlugin constructs a controller from shared dependencies.
type ControllerPlugin interface {
	Name() string
	MustCreateController(deps *Dependencies) Controller
}

// Dependencies carries assembly-time wiring into plugins. App services are
// held untyped so this package stays import-cycle free; plugins assert the
// concrete interface they need.
type Dependencies struct {
	DB                   *gorm.DB
	Config               *config.Config
	ProcessingAppService interface{}
}

var (
	mu                sync.Mutex
	resourcePlugins   []ResourcePlugin
	componentPlugins  []ComponentPlugin
	controllerPlugins []ControllerPlugin
	openedResources   []Resource
	startedComponents []Component
)

// RegisterResourcePlugin is called from package init functions.
func RegisterResourcePlugin(p ResourcePlugin) {
	mu.Lock()
	defer mu.Unlock()
	resourcePlugins = append(resourcePlugins, p)
}

// RegisterComponentPlugin is called from package init functions.
func RegisterComponentPlugin(p ComponentPlugin) {
	mu.Lock()
	defer mu.Unlock()
	componentPlugins = append(componentPlugins, p)
}

// RegisterControllerPlugin is called from package init functions.
func RegisterControllerPlugin(p ControllerPlugin) {
	mu.Lock()
	defer mu.Unlock()
	controllerPlugins = append(controllerPlugins, p)
}

// MustInitResources opens all registered resources in registration order.
func MustInitResources() {
	mu.Lock()
	defer mu.Unlock()
	for _, p := range resourcePlugins {
		r := p.MustCreateResource()
		r.MustOpen()
		openedResources = append(openedResources, r)
		logger.Infof("resource opened name=%s", p.Name())
	}
}

// CloseResources closes resources in reverse open order.
func CloseResources() {
	mu.Lock()
	defer mu.Unlock()
	for i := len(openedResources) - 1; i >= 0; i-- {
		openedResources[i].Close()
	}
	openedResources = nil
}

// MustInitComponents constructs and starts all registered components.
func MustInitComponents(deps *Dependencies) {
	mu.Lock()
	defer mu.Unlock()
	for _, p := range componentPlugins {
		c := p.MustCreateComponent(deps)
		if err := c.Start(); err != nil {
			panic("start component " + p.Name() + ": " + err.Error())
		}
		startedComponents = append(startedComponents, c)
		logger.Infof("component started name=%s", p.Name())
	}
}

// StopComponents stops components in reverse start order.
func StopComponents() {
	mu.Lock()
	defer mu.Unlock()
	for i := len(startedComponents) - 1; i >= 0; i-- {
		if err := startedComponents[i].Stop(); err != nil {
			logger.Warnf("stop component failed name=%s error=%s", startedComponents[i].GetName(), err.Error())
		}
	}
	startedComponents = nil
}

// MustInitControllers builds controllers and mounts their routes.
func MustInitControllers(engine *gin.Engine, deps *Dependencies) {
	mu.Lock()
	defer mu.Unlock()
	for _, p := range controllerPlugins {
		c := p.MustCreateController(deps)
		c.RegisterRoutes(engine)
		logger.Infof("controller mounted name=%s", p.Name())
	}
}
