// Package canvas records 2D drawing into a retained pass tree that a
// renderer turns into explicit-API render passes.
//
// # Overview
//
// A Canvas keeps a stack of save scopes. Each scope has a transform, a
// conservative device-space cull rect and a clip depth. Draws are
// recorded as entities into the pass of the innermost layer; SaveLayer
// opens a subpass that is composited into its parent on Restore, through
// an offscreen target when its paint needs isolation.
//
// # Quick Start
//
//	c := canvas.NewWithCullRect(canvas.MakeXYWH(0, 0, 800, 600))
//
//	c.Save()
//	c.Translate(canvas.Vec3(100, 100, 0))
//	c.ClipRect(canvas.MakeXYWH(0, 0, 200, 200), canvas.ClipIntersect)
//	c.DrawCircle(canvas.Pt(100, 100), 80, canvas.NewPaint())
//	c.Restore()
//
//	pic, err := c.EndRecordingAsPicture()
//
// # Culling
//
// The cull rect only ever shrinks inside a scope. Intersect clips tighten
// it to the clip's device bounds; difference clips trim it only when the
// result is still exactly a rectangle. Draws whose bounds miss the cull
// rect are dropped, and nothing is recorded while it is empty.
//
// # Coordinate System
//
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Angles in radians, positive angles turn clockwise on screen
//
// # Rendering
//
// The render package encodes draw commands into render passes against a
// Backend; see render.RenderPassEncoder and the backend packages.
package canvas
