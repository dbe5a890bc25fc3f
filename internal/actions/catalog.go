package actions

import (
	"context"

	"github.com/ironsheep/media-actions/internal/files"
	"github.com/ironsheep/media-actions/internal/fsutil"
	"github.com/ironsheep/media-actions/internal/imaging"
	"github.com/ironsheep/media-actions/internal/metadata"
	"github.com/ironsheep/media-actions/internal/video"
)

// nameRule keeps a name segment inside its directory.
const nameRule = "excludesall=/"

func intParam(name string, def int, rule, desc string) Param {
	return Param{Name: name, Type: TypeInteger, Default: def, Rule: rule, Description: desc}
}

func boolParam(name string, def bool, desc string) Param {
	return Param{Name: name, Type: TypeBoolean, Default: def, Description: desc}
}

func stringParam(name string, def any, rule, desc string) Param {
	return Param{Name: name, Type: TypeString, Default: def, Rule: rule, Description: desc}
}

func colorParam(name, def, desc string) Param {
	return Param{Name: name, Type: TypeColor, Default: def, Description: desc}
}

func enumParam(name, def string, choices []string, desc string) Param {
	return Param{Name: name, Type: TypeEnum, Default: def, Choices: choices, Description: desc}
}

// single adapts a one-path, one-output function.
func single(fn func(path string, a Args) (string, error)) runFunc {
	return func(_ context.Context, paths []string, a Args) (*outcome, error) {
		out, err := fn(paths[0], a)
		if err != nil {
			return nil, err
		}
		return &outcome{outputs: []string{out}}, nil
	}
}

// multi adapts a function that writes several outputs, keeping the ones
// written before a failure.
func multi(fn func(ctx context.Context, paths []string, a Args) ([]string, error)) runFunc {
	return func(ctx context.Context, paths []string, a Args) (*outcome, error) {
		outs, err := fn(ctx, paths, a)
		return &outcome{outputs: outs}, err
	}
}

func (r *Registry) catalog() []*Operation {
	var ops []*Operation
	ops = append(ops, r.fileOperations()...)
	ops = append(ops, r.imageOperations()...)
	ops = append(ops, r.videoOperations()...)
	return ops
}

func (r *Registry) fileOperations() []*Operation {
	return []*Operation{
		{
			Name:        "prefix_filename",
			Group:       GroupFiles,
			Description: "Put a text in front of each file or folder name",
			Input:       InputEach,
			MinInputs:   1,
			Params:      []Param{stringParam("prefix", "_", nameRule, "Text to put in front of the name")},
			run: single(func(path string, a Args) (string, error) {
				return files.PrefixName(path, a.String("prefix"))
			}),
		},
		{
			Name:        "postfix_filename",
			Group:       GroupFiles,
			Description: "Put a text behind each file or folder name, before the extension",
			Input:       InputEach,
			MinInputs:   1,
			Params:      []Param{stringParam("postfix", "_", nameRule, "Text to put behind the name")},
			run: single(func(path string, a Args) (string, error) {
				return files.PostfixName(path, a.String("postfix"))
			}),
		},
		{
			Name:        "split_large_folder",
			Group:       GroupFiles,
			Description: "Move the files of a folder into numbered sub-folders of a fixed size",
			Input:       InputDirectory,
			MinInputs:   1,
			Params:      []Param{intParam("files_per_sub_folder", 100, "gte=1", "Maximum number of files per sub-folder")},
			run: multi(func(_ context.Context, paths []string, a Args) ([]string, error) {
				return files.SplitLargeFolder(paths[0], a.Int("files_per_sub_folder"))
			}),
		},
		{
			Name:        "weed_out_files",
			Group:       GroupFiles,
			Description: "Keep one file out of every n in a folder and delete the rest",
			Input:       InputDirectory,
			MinInputs:   1,
			Params:      []Param{intParam("keep_one_file_out_of", 2, "gte=1", "Keep the first file of every group of this size")},
			run: multi(func(_ context.Context, paths []string, a Args) ([]string, error) {
				return files.WeedOutFiles(paths[0], a.Int("keep_one_file_out_of"))
			}),
		},
		{
			Name:        "make_filename_unrecognizable",
			Group:       GroupFiles,
			Description: "Replace each file name with a hash, keeping the extension",
			Input:       InputEach,
			MinInputs:   1,
			Params:      []Param{boolParam("keep_original", true, "Copy instead of rename")},
			run: single(func(path string, a Args) (string, error) {
				return files.ObfuscateName(path, a.Bool("keep_original"))
			}),
		},
		{
			Name:        "number_filenames",
			Group:       GroupFiles,
			Description: "Number the files in the given order with zero-padded indices",
			Input:       InputSet,
			MinInputs:   1,
			Params: []Param{
				intParam("start_index", 0, "gte=0", "First number"),
				intParam("step", 1, "gte=1", "Increment between numbers"),
				stringParam("number_prefix", "", nameRule, "Text in front of every number"),
				enumParam("pre_or_postfix", string(files.Prefix), []string{string(files.Prefix), string(files.Postfix)},
					"Put the number in front of or behind the name"),
			},
			run: multi(func(_ context.Context, paths []string, a Args) ([]string, error) {
				return files.NumberFilenames(paths, a.Int("start_index"), a.Int("step"),
					a.String("number_prefix"), files.Position(a.String("pre_or_postfix")))
			}),
		},
		{
			Name:        "sort_files_by_size",
			Group:       GroupFiles,
			Description: "Move the files of a folder into sub-folders named after their size class",
			Input:       InputDirectory,
			MinInputs:   1,
			run: multi(func(_ context.Context, paths []string, _ Args) ([]string, error) {
				return files.BucketBySize(paths[0])
			}),
		},
		{
			Name:        "duplicate_file",
			Group:       GroupFiles,
			Description: "Make numbered copies of each file",
			Input:       InputEach,
			MinInputs:   1,
			Params:      []Param{intParam("number_of_duplicates", 10, "gte=1", "Number of copies")},
			run: multi(func(_ context.Context, paths []string, a Args) ([]string, error) {
				return files.DuplicateFile(paths[0], a.Int("number_of_duplicates"))
			}),
		},
		{
			Name:        "move_to_subdirectory",
			Group:       GroupFiles,
			Description: "Move the files into a sub-folder next to the first one",
			Input:       InputSet,
			MinInputs:   1,
			Params:      []Param{stringParam("subdirectory", "originals", "required,"+nameRule, "Name of the sub-folder")},
			run: multi(func(_ context.Context, paths []string, a Args) ([]string, error) {
				return fsutil.MoveToSubdirectory(paths, a.String("subdirectory"))
			}),
		},
	}
}

func (r *Registry) imageOperations() []*Operation {
	return []*Operation{
		{
			Name:        "resize_image",
			Group:       GroupImage,
			Description: "Resize; a width or height of 0 keeps the aspect ratio",
			Input:       InputEach,
			MinInputs:   1,
			Params: []Param{
				intParam("new_width", 1080, "", "Target width in pixels"),
				intParam("new_height", 1080, "", "Target height in pixels"),
				enumParam("resample", string(imaging.Lanczos), imaging.ResampleKinds(), "Resampling filter"),
			},
			run: single(func(path string, a Args) (string, error) {
				return r.images.Resize(path, a.Int("new_width"), a.Int("new_height"), imaging.ResampleKind(a.String("resample")))
			}),
		},
		{
			Name:        "add_margin",
			Group:       GroupImage,
			Description: "Shrink the image inside a solid coloured border of the same overall size",
			Input:       InputEach,
			MinInputs:   1,
			Params: []Param{
				intParam("margin", 100, "gte=0", "Border width in pixels"),
				colorParam("background_color", "#000000", "Border colour"),
			},
			run: single(func(path string, a Args) (string, error) {
				return r.images.AddMargin(path, a.Int("margin"), a.Color("background_color"))
			}),
		},
		{
			Name:        "crop_image_in_equal_parts",
			Group:       GroupImage,
			Description: "Cut the image into an x by y grid of tiles",
			Input:       InputEach,
			MinInputs:   1,
			Params: []Param{
				intParam("x", 2, "gte=1", "Columns"),
				intParam("y", 2, "gte=1", "Rows"),
			},
			run: multi(func(_ context.Context, paths []string, a Args) ([]string, error) {
				return r.images.CropGrid(paths[0], a.Int("x"), a.Int("y"))
			}),
		},
		{
			Name:        "crop_center",
			Group:       GroupImage,
			Description: "Cut a centred rectangle out of the image",
			Input:       InputEach,
			MinInputs:   1,
			Params: []Param{
				intParam("new_width", 1080, "gte=1", "Crop width in pixels"),
				intParam("new_height", 1080, "gte=1", "Crop height in pixels"),
			},
			run: single(func(path string, a Args) (string, error) {
				return r.images.CenterCrop(path, a.Int("new_width"), a.Int("new_height"))
			}),
		},
		{
			Name:        "paste_image_in_center",
			Group:       GroupImage,
			Description: "Centre the image on a canvas of a fixed size",
			Input:       InputEach,
			MinInputs:   1,
			Params: []Param{
				intParam("new_image_width", 1920, "gte=1", "Canvas width in pixels"),
				intParam("new_image_height", 1080, "gte=1", "Canvas height in pixels"),
				colorParam("background_color", "#FFFFFF", "Canvas colour"),
			},
			run: single(func(path string, a Args) (string, error) {
				return r.images.CenterPaste(path, a.Int("new_image_width"), a.Int("new_image_height"), a.Color("background_color"))
			}),
		},
		{
			Name:        "image_wall",
			Group:       GroupImage,
			Description: "Place the images side by side on one canvas",
			Input:       InputSet,
			MinInputs:   1,
			Params: []Param{
				colorParam("wall_color", "#FFFFFF", "Canvas colour"),
				intParam("gap", 300, "gte=0", "Horizontal space between images"),
				intParam("pad_above", 300, "gte=0", "Space above the tallest image"),
				intParam("pad_below", 300, "gte=0", "Space below the tallest image"),
				enumParam("vertical_align", string(imaging.AlignCenter),
					[]string{string(imaging.AlignTop), string(imaging.AlignCenter), string(imaging.AlignBottom)},
					"Vertical placement of shorter images"),
				enumParam("frame", string(imaging.FrameNone),
					[]string{string(imaging.FrameNone), string(imaging.FrameSolid), string(imaging.FrameBlurred)},
					"Frame drawn around every image"),
				intParam("frame_width", 20, "gte=0", "Frame width in pixels"),
				colorParam("frame_color", "#000000", "Frame colour"),
			},
			run: multi(func(_ context.Context, paths []string, a Args) ([]string, error) {
				out, err := r.images.Wall(paths, imaging.WallOptions{
					Background: a.Color("wall_color"),
					Gap:        a.Int("gap"),
					PadAbove:   a.Int("pad_above"),
					PadBelow:   a.Int("pad_below"),
					Align:      imaging.VAlign(a.String("vertical_align")),
					Frame:      imaging.FrameKind(a.String("frame")),
					FrameWidth: a.Int("frame_width"),
					FrameColor: a.Color("frame_color"),
				})
				if err != nil {
					return nil, err
				}
				return []string{out}, nil
			}),
		},
		{
			Name:        "rotate_image",
			Group:       GroupImage,
			Description: "Rotate counter-clockwise by a number of degrees",
			Input:       InputEach,
			MinInputs:   1,
			Params: []Param{
				{Name: "degrees", Type: TypeNumber, Default: 90.0, Description: "Counter-clockwise angle"},
				colorParam("background_color", "#000000", "Colour of the uncovered area"),
				boolParam("expand", true, "Grow the canvas to hold the whole rotated image"),
				enumParam("pivot", string(imaging.PivotCenter),
					[]string{string(imaging.PivotCenter), string(imaging.PivotTopLeft)},
					"Rotation centre when the canvas is not expanded"),
			},
			run: single(func(path string, a Args) (string, error) {
				return r.images.Rotate(path, a.Float("degrees"), a.Color("background_color"), a.Bool("expand"), imaging.Pivot(a.String("pivot")))
			}),
		},
		{
			Name:        "blur_edges",
			Group:       GroupImage,
			Description: "Blur the image into a coloured border",
			Input:       InputEach,
			MinInputs:   1,
			Params: []Param{
				intParam("radius", 30, "gte=1", "Blur radius in pixels"),
				colorParam("background_color", "#000000", "Border colour"),
			},
			run: single(func(path string, a Args) (string, error) {
				return r.images.EdgeBlur(path, a.Int("radius"), a.Color("background_color"))
			}),
		},
		{
			Name:        "grayscale",
			Group:       GroupImage,
			Description: "Convert to grayscale",
			Input:       InputEach,
			MinInputs:   1,
			Params: []Param{
				enumParam("mode", string(imaging.Gray8),
					[]string{string(imaging.Gray8), string(imaging.Gray16), string(imaging.Bilevel)},
					"L is 8-bit gray, I16 is 16-bit gray, 1 is dithered black and white"),
			},
			run: single(func(path string, a Args) (string, error) {
				return r.images.Grayscale(path, imaging.GrayMode(a.String("mode")))
			}),
		},
		{
			Name:        "colorize",
			Group:       GroupImage,
			Description: "Map the gray levels onto a two or three colour ramp",
			Input:       InputEach,
			MinInputs:   1,
			Params: []Param{
				colorParam("black_color", "#000000", "Colour for dark tones"),
				colorParam("white_color", "#FFFFFF", "Colour for light tones"),
				colorParam("mid_color", "#808080", "Colour for mid tones"),
				boolParam("use_mid", false, "Use mid_color"),
				intParam("black_point", 0, "min=0,max=255", "Gray level mapped to black_color"),
				intParam("white_point", 255, "min=0,max=255", "Gray level mapped to white_color"),
				intParam("mid_point", 127, "min=0,max=255", "Gray level mapped to mid_color"),
			},
			run: single(func(path string, a Args) (string, error) {
				return r.images.Colorize(path, imaging.ColorizeOptions{
					Black:      a.Color("black_color"),
					White:      a.Color("white_color"),
					Mid:        a.Color("mid_color"),
					UseMid:     a.Bool("use_mid"),
					BlackPoint: a.Int("black_point"),
					WhitePoint: a.Int("white_point"),
					MidPoint:   a.Int("mid_point"),
				})
			}),
		},
		{
			Name:        "solarize",
			Group:       GroupImage,
			Description: "Invert every channel value above the threshold",
			Input:       InputEach,
			MinInputs:   1,
			Params:      []Param{intParam("threshold", 128, "min=0,max=255", "Channel values above this are inverted")},
			run: single(func(path string, a Args) (string, error) {
				return r.images.Solarize(path, a.Int("threshold"))
			}),
		},
		{
			Name:        "image_difference",
			Group:       GroupImage,
			Description: "Write the per-pixel difference of two images",
			Input:       InputSet,
			MinInputs:   2,
			MaxInputs:   2,
			run: multi(func(_ context.Context, paths []string, _ Args) ([]string, error) {
				out, err := r.images.Difference(paths)
				if err != nil {
					return nil, err
				}
				return []string{out}, nil
			}),
		},
		{
			Name:        "apply_filter",
			Group:       GroupImage,
			Description: "Apply a convolution filter",
			Input:       InputEach,
			MinInputs:   1,
			Params: []Param{
				enumParam("filter_name", string(imaging.FilterBlur), imaging.FilterNames(), "Filter to apply"),
				boolParam("save_both_images", false, "Write the original and the result side by side"),
				intParam(seedParam, 0, "", "Seed of the random filter; 0 picks one from the clock"),
			},
			run: single(func(path string, a Args) (string, error) {
				return r.images.ApplyFilter(path, imaging.FilterName(a.String("filter_name")), a.Bool("save_both_images"), int64(a.Int(seedParam)))
			}),
		},
		{
			Name:        "write_tags",
			Group:       GroupImage,
			Description: "Write a copy carrying the given EXIF text tags (JPEG, PNG and TIFF)",
			Input:       InputEach,
			MinInputs:   1,
			Params: []Param{
				stringParam("artist", nil, "", "Artist"),
				stringParam("copyright", nil, "", "Copyright notice"),
				stringParam("software", nil, "", "Software"),
				stringParam("description", nil, "", "Image description"),
				stringParam("datetime", nil, "omitempty,datetime="+metadata.DateTimeLayout, "Date and time as YYYY:MM:DD HH:MM:SS"),
			},
			run: single(func(path string, a Args) (string, error) {
				return metadata.Write(path, metadata.Tags{
					Artist:      a.String("artist"),
					Copyright:   a.String("copyright"),
					Software:    a.String("software"),
					Description: a.String("description"),
					DateTime:    a.String("datetime"),
				})
			}),
		},
		{
			Name:        "read_tags",
			Group:       GroupImage,
			Description: "Read the EXIF text tags (JPEG, PNG and TIFF)",
			Input:       InputEach,
			MinInputs:   1,
			run: func(_ context.Context, paths []string, _ Args) (*outcome, error) {
				tags, err := metadata.Read(paths[0])
				if err != nil {
					return nil, err
				}
				return &outcome{data: tags}, nil
			},
		},
	}
}

func (r *Registry) videoOperations() []*Operation {
	movieParams := func(name string) []Param {
		return []Param{
			stringParam("movie_name", name, "required,"+nameRule, "Base name of the video"),
			enumParam("video_extension", "mp4", []string{"mp4", "mov"}, "Container"),
			stringParam("image_extension", "jpeg", "required,excludesall=/*?[", "Extension of the stills, case-sensitive"),
			boolParam("reverse", false, "Also write the reversed video and the forward+reversed loop"),
			intParam("bitrate", 3300, "gte=1", "Video bitrate in kbit/s"),
			intParam("frames_per_second", 30, "gte=1", "Output frame rate"),
			enumParam("codec", "libx264", []string{"libx264", "libx264rgb", "libx265", "libxvid"}, "Video codec"),
			enumParam("pixel_format", "yuv420p", []string{"yuv420p", "yuv422p"}, "Pixel format"),
		}
	}
	movieOptions := func(a Args) video.MovieOptions {
		return video.MovieOptions{
			Name:        a.String("movie_name"),
			VideoExt:    a.String("video_extension"),
			ImageExt:    a.String("image_extension"),
			Reverse:     a.Bool("reverse"),
			Bitrate:     a.Int("bitrate"),
			FPS:         a.Int("frames_per_second"),
			Codec:       a.String("codec"),
			PixelFormat: a.String("pixel_format"),
		}
	}

	return []*Operation{
		{
			Name:        "make_movie",
			Group:       GroupVideo,
			Description: "Encode the stills of a folder into a video, one frame per still",
			Input:       InputDirectory,
			MinInputs:   1,
			Params:      movieParams("original"),
			run: multi(func(ctx context.Context, paths []string, a Args) ([]string, error) {
				return r.videos.MakeMovie(ctx, paths[0], movieOptions(a))
			}),
		},
		{
			Name:        "make_slideshow",
			Group:       GroupVideo,
			Description: "Encode the stills of a folder into a slideshow",
			Input:       InputDirectory,
			MinInputs:   1,
			Params: append(movieParams("slideshow"),
				intParam("seconds_per_frame", 2, "gte=1", "Seconds every still is shown")),
			run: multi(func(ctx context.Context, paths []string, a Args) ([]string, error) {
				opts := movieOptions(a)
				opts.SecondsPerFrame = a.Int("seconds_per_frame")
				return r.videos.MakeSlideshow(ctx, paths[0], opts)
			}),
		},
		{
			Name:        "merge_videos",
			Group:       GroupVideo,
			Description: "Join videos without re-encoding",
			Input:       InputSet,
			MinInputs:   1,
			Params: []Param{
				boolParam("in_alphabetical_order", false, "Sort the videos by path first"),
				stringParam("final_video_name", "final", "required,"+nameRule, "Name of the joined video"),
			},
			run: multi(func(ctx context.Context, paths []string, a Args) ([]string, error) {
				out, err := r.videos.ConcatVideos(ctx, paths, a.Bool("in_alphabetical_order"), a.String("final_video_name"))
				if err != nil {
					return nil, err
				}
				return []string{out}, nil
			}),
		},
	}
}
