package entity

import "errors"

var ErrNoPhysicsWorld = errors.New("entity: world has no physics world")
